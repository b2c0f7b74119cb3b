// Package services implements the business logic between the transports
// (HTTP form, JSON API, CLI) and the record store.
//
// # Available Services
//
//	- SimulationService: parses a submission, writes it to the record store,
//	  reads the derived records back and formats them as a table
//	- HealthService: liveness, readiness and version information
//
// # Round Trip
//
// A submission is handled in one synchronous sequence:
//
//	texts ──► ParseFields/ParseForm ──► Schema.BuildRow ──► store.Update
//	                                                            │
//	Result{Table} ◄── dataprocessing.Convert ◄── store.GetAllRecords
//
// The read happens right after the write. The service never polls or retries;
// whatever the sheet holds at read time is converted.
//
// # Error Handling
//
// Run never returns a Go error. Failures come back inside the Result with a
// Kind the presentation layer switches on:
//
//	result := svc.Run(ctx, domain.ModeMR, texts)
//	switch result.Kind() {
//	case services.KindNone:
//	    render(result.Table)
//	case services.KindValidation, services.KindSchema:
//	    showMessage(result.Message())
//	default:
//	    showMessage(result.Message())
//	}
//
// A failed Result never carries a partial table.
//
// # Testing
//
// Services are tested against sheetstore.MemoryStore, or against a testify
// mock of sheetstore.RecordStore when call order matters.
package services
