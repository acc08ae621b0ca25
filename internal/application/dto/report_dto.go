package dto

// ReportTable reporte tabular; cada fila es un mapa columna -> texto.
type ReportTable struct {
	Name    string              `json:"name"`
	Title   string              `json:"title"`
	Columns []string            `json:"columns"`
	Rows    []map[string]string `json:"rows"`
}
