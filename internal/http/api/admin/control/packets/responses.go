package packets

// RESPONSES FOR /api/admin/catalog/*

type ReloadResponse struct {
	Status string `json:"status"`
}

type UploadCatalogResponse struct {
	Venues   int    `json:"venues"`
	Archive  string `json:"archive,omitempty"`
	Location string `json:"location,omitempty"`
}
