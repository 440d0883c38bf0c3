package models

// MaxURLHistory is the number of sheet URLs remembered.
const MaxURLHistory = 5

// AppMemory is the persisted dashboard state.
// Timestamps are Unix milliseconds; zero means never.
type AppMemory struct {
	// SheetURL is the spreadsheet link entered by the user.
	SheetURL string `json:"sheetUrl"`
	// SheetID is the document ID extracted from SheetURL.
	SheetID string `json:"sheetId"`
	// URLHistory holds recent sheet URLs, most recent first.
	URLHistory []string `json:"urlHistory"`
	// Configs maps tab name to its range configuration.
	Configs map[string]SheetConfig `json:"configs"`
	// ProductKnowledgeCache is the last raw grid of the knowledge tab.
	ProductKnowledgeCache Grid `json:"productKnowledgeCache"`
	// LastKnowledgeUpdate is when ProductKnowledgeCache was fetched.
	LastKnowledgeUpdate int64 `json:"lastKnowledgeUpdate,omitempty"`
	// ProductBlockLocations is the cached anchor coordinate set.
	ProductBlockLocations AnchorCoordinateSet `json:"productBlockLocations"`
	// HourlyCache is the last parsed hourly table.
	HourlyCache []RowData `json:"hourlyCache"`
	// LastHourlyUpdate is when HourlyCache was fetched.
	LastHourlyUpdate int64 `json:"lastHourlyUpdate,omitempty"`
	// AdsCache is the last parsed ads table.
	AdsCache []RowData `json:"adsCache"`
	// LastAdsUpdate is when AdsCache was fetched.
	LastAdsUpdate int64 `json:"lastAdsUpdate,omitempty"`
}

// DefaultMemory returns the state of a dashboard that was never used.
// A nil configs map means DefaultSheetConfigs.
func DefaultMemory(sheetURL, sheetID string, configs map[string]SheetConfig) *AppMemory {
	if configs == nil {
		configs = DefaultSheetConfigs()
	}
	m := &AppMemory{
		SheetURL: sheetURL,
		SheetID:  sheetID,
		Configs:  make(map[string]SheetConfig, len(configs)),
	}
	for name, cfg := range configs {
		m.Configs[name] = cfg
	}
	if sheetURL != "" {
		m.URLHistory = []string{sheetURL}
	}
	return m
}

// Normalize fills fields missing from a stored record with defaults.
// Stored tab configs are laid over the default ones.
func (m *AppMemory) Normalize(defaults *AppMemory) {
	if m.SheetURL == "" {
		m.SheetURL = defaults.SheetURL
	}
	if m.SheetID == "" {
		m.SheetID = defaults.SheetID
	}
	if len(m.URLHistory) == 0 && m.SheetURL != "" {
		m.URLHistory = []string{m.SheetURL}
	}
	configs := make(map[string]SheetConfig, len(defaults.Configs))
	for name, cfg := range defaults.Configs {
		configs[name] = cfg
	}
	for name, cfg := range m.Configs {
		if base, ok := configs[name]; ok {
			configs[name] = base.Merge(cfg)
		} else {
			configs[name] = cfg
		}
	}
	m.Configs = configs
}

// RememberURL moves url to the front of the history, dropping duplicates and
// anything beyond MaxURLHistory.
func (m *AppMemory) RememberURL(url string) {
	history := []string{url}
	for _, h := range m.URLHistory {
		if h != url {
			history = append(history, h)
		}
	}
	if len(history) > MaxURLHistory {
		history = history[:MaxURLHistory]
	}
	m.URLHistory = history
}

// ClearCaches drops every cached tab payload. The anchor cache is kept.
func (m *AppMemory) ClearCaches() {
	m.HourlyCache = nil
	m.AdsCache = nil
	m.ProductKnowledgeCache = nil
}
