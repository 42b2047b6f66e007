package feature

// Def describes one gateable capability.
type Def struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	HasLimit    bool   `json:"has_limit"`
	LimitLabel  string `json:"limit_label,omitempty"`
}

// Catalog is the fixed set of features a plan can bind. A key absent from a
// plan's bindings is disabled for that plan, never enabled by default.
var Catalog = []Def{
	{Key: "leads_management", Name: "Leads Management", Description: "Create, view, edit, and manage leads"},
	{Key: "leads_import_export", Name: "Leads Import/Export", Description: "Import and export leads via CSV/Excel"},
	{Key: "followups", Name: "Followups", Description: "Create and manage followups"},
	{Key: "payments", Name: "Payments", Description: "Track and manage payments"},
	{Key: "itineraries", Name: "Itineraries/Packages", Description: "Create and manage travel packages"},
	{Key: "whatsapp", Name: "WhatsApp Integration", Description: "Send WhatsApp messages", HasLimit: true, LimitLabel: "Messages per month"},
	{Key: "campaigns", Name: "Email Campaigns", Description: "Create and run email campaigns", HasLimit: true, LimitLabel: "Campaigns per month"},
	{Key: "sms_campaigns", Name: "SMS Campaigns", Description: "Create and run SMS campaigns", HasLimit: true, LimitLabel: "Messages per month"},
	{Key: "landing_pages", Name: "Landing Pages", Description: "Create and host landing pages", HasLimit: true, LimitLabel: "Active pages"},
	{Key: "reports", Name: "Reports", Description: "Access sales and performance reports"},
	{Key: "targets", Name: "Targets Management", Description: "Set and track employee targets"},
	{Key: "expenses", Name: "Expense Management", Description: "Track and manage expenses"},
	{Key: "user_management", Name: "User Management", Description: "Add and manage users"},
	{Key: "company_settings", Name: "Company Settings", Description: "Customize company settings"},
	{Key: "api_access", Name: "API Access", Description: "Access to API endpoints"},
	{Key: "custom_domain", Name: "Custom Domain", Description: "Use a custom domain for the CRM"},
	{Key: "white_label", Name: "White Label", Description: "Remove TravelOps branding"},
}

// Lookup returns the catalog entry for a key.
func Lookup(key string) (Def, bool) {
	for _, d := range Catalog {
		if d.Key == key {
			return d, true
		}
	}
	return Def{}, false
}
