// Package files saves exported workbooks to disk.
//
// Manager accepts either a file path or an existing directory. A directory
// receives the workbook under its default name, e.g. resultados_MR.xlsx, and
// missing parent directories are created. The write goes through a temporary
// file in the target directory followed by a rename, so a reader never sees a
// half-written workbook.
//
// Example usage:
//
//	manager := files.NewManager(logger)
//	saved, err := manager.SaveWorkbook("out/", table.Mode.ExportFileName(), data)
package files
