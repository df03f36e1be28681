package models

// Route is one top-level navigation entry of the application shell
type Route struct {
	Key   string `json:"key"`
	Path  string `json:"path"`
	Title string `json:"title"`
}

// Routes returns the fixed navigation surface
func Routes() []Route {
	return []Route{
		{Key: "fundamentals", Path: "/", Title: "Fundamentals"},
		{Key: "hardware", Path: "/hardware", Title: "Hardware"},
		{Key: "engineering", Path: "/engineering", Title: "Engineering"},
		{Key: "ai", Path: "/ai", Title: "AI Lab"},
		{Key: "marketplace", Path: "/market", Title: "Marketplace"},
		{Key: "vault", Path: "/vault", Title: "Project Vault"},
		{Key: "certification", Path: "/certification", Title: "Certification"},
		{Key: "tools", Path: "/tools", Title: "Tools"},
		{Key: "build", Path: "/build", Title: "Build Guide"},
		{Key: "code", Path: "/code", Title: "Code Lab"},
	}
}
