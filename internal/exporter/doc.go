// Package exporter writes a formatted result table to an in-memory Excel
// workbook for download.
//
// The workbook has a single sheet named "Resultados" with the header in row 1
// and one row per result from row 2 on. DP tables also get a line chart of DP
// against ciclos anchored at E2, whose series covers exactly the written data
// rows.
//
// Example usage:
//
//	data, err := exporter.Export(table)
//	if err != nil {
//	    return err
//	}
//	w.Header().Set("Content-Type", exporter.ContentType)
//	w.Header().Set("Content-Disposition", exporter.Disposition(table.Mode))
//	w.Write(data)
package exporter
