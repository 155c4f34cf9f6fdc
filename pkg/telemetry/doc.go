// Package telemetry provides observability instrumentation for vpkg.
//
// It integrates structured logging (zerolog), distributed tracing (OpenTelemetry)
// and metrics (Prometheus). Every component degrades to a no-op when disabled, so
// the plugin manager and detector can always be handed a *Metrics or *Tracer.
//
// # Usage
//
//	cfg := telemetry.DefaultConfig()
//	cfg.Metrics.Enabled = true
//
//	tel, err := telemetry.NewTelemetry(cfg)
//	if err != nil {
//	    return err
//	}
//	defer tel.Shutdown(context.Background())
//
//	ctx, span := tel.Tracer.StartPluginSpan(ctx, "cuda")
//	defer span.End()
//
//	tel.Metrics.RecordHookCall("cuda", "success", elapsed)
package telemetry
