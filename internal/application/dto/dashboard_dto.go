package dto

// DashboardResponse resumen del panel del tenant.
type DashboardResponse struct {
	Company       PublicCompanyResponse `json:"company"`
	Certificates  int                   `json:"certificates"`
	Active        int                   `json:"active"`
	Revoked       int                   `json:"revoked"`
	Batches       int                   `json:"batches"`
	Usage         UsageResponse         `json:"usage"`
	RecentBatches []BatchResponse       `json:"recent_batches"`
}
