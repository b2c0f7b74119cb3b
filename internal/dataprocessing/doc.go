// Package dataprocessing turns laboratory form input into store rows and turns
// store reads back into formatted result tables.
//
// # Architecture
//
// The package is organized into three components:
//
// 1. Parser: reads comma-decimal text typed by the user (ParseDecimal, ParseFields, ParseForm)
// 2. Schema: the fixed, ordered input layout of each mode and its store range
// 3. Processor: unit conversion and localized formatting of the derived records
//
// # Usage
//
//	schema := dataprocessing.MRSchema
//	values, err := dataprocessing.ParseFields(schema, texts)
//	if err != nil {
//	    // *ValidationError names the offending field
//	}
//	row, err := schema.BuildRow(values)
//	...
//	table, err := dataprocessing.Convert(domain.ModeMR, records)
//
// # Data Flow
//
//	form text → Parser → []float64 → Schema.BuildRow → store → Records → Processor → Table
//
// # Error Handling
//
// Every failure is one of ValidationError, SchemaError or ConversionError and
// can be matched with errors.As. No function returns a partial table.
package dataprocessing
