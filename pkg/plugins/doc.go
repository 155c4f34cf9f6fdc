// Package plugins defines the virtual package plugin contract and the Manager that
// registers plugins and collects their records.
//
// A virtual package is a package name beginning with "__" (for example __glibc or
// __cuda) that a solver treats as installed when the host provides the matching
// capability. Plugins never inspect the host themselves: they receive a HostFacts
// snapshot gathered elsewhere and turn it into records, honoring user overrides.
//
// # Overrides
//
// Every plugin consults Overrides before reporting a record. For a key such as
// "cuda":
//
//   - CONDA_OVERRIDE_CUDA set to a non-empty value replaces the detected version.
//   - CONDA_OVERRIDE_CUDA set to "" suppresses the record.
//   - Otherwise the config file value applies: a string replaces, null suppresses,
//     and a missing key leaves the detected value alone.
package plugins
