package report

// IssueView is the caller-facing shape of rules.Issue (spec.md §6: "no
// internal pointers").
type IssueView struct {
	URL      string `json:"url"`
	Code     string `json:"code"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// SiteOverview is the summary block shared by both top-level trees.
type SiteOverview struct {
	BaseURL             string  `json:"base_url"`
	TotalCrawledPages   int     `json:"total_crawled_pages"`
	AverageSEOScore     float64 `json:"average_seo_score"`
	TotalIssues         int     `json:"total_issues"`
	CriticalIssuesCount int     `json:"critical_issues_count"`
	HighIssuesCount     int     `json:"high_issues_count"`
	MediumIssuesCount   int     `json:"medium_issues_count"`
	LowIssuesCount      int     `json:"low_issues_count"`
}

// Crawlability is the robots/sitemap summary block.
type Crawlability struct {
	RobotsTxtExists bool     `json:"robots_txt_exists"`
	RobotsTxtContent string  `json:"robots_txt_content,omitempty"`
	SitemapExists   bool     `json:"sitemap_exists"`
	SitemapsFound   []string `json:"sitemaps_found"`
}

// IssuesSummary buckets every scored issue by severity.
type IssuesSummary struct {
	Critical []IssueView `json:"critical"`
	High     []IssueView `json:"high"`
	Medium   []IssueView `json:"medium"`
	Low      []IssueView `json:"low"`
}

// AuditStats is the numeric half of the report (spec.md §6).
type AuditStats struct {
	SiteOverview            SiteOverview   `json:"site_overview"`
	Crawlability            Crawlability   `json:"crawlability"`
	StatusCodeDistribution  map[string]int `json:"status_code_distribution"`
	TechnicalSEO            map[string]int `json:"technical_seo"`
	OnPageSEO               map[string]int `json:"onpage_seo"`
}

// AuditIssues is the categorized half of the report.
type AuditIssues struct {
	SiteOverview  SiteOverview             `json:"site_overview"`
	Crawlability  Crawlability             `json:"crawlability"`
	IssuesSummary IssuesSummary            `json:"issues_summary"`
	TechnicalSEO  map[string][]IssueView   `json:"technical_seo"`
	OnPageSEO     map[string][]IssueView   `json:"onpage_seo"`
}

// AuditReport is the full two-part document plus timing (spec.md §6).
type AuditReport struct {
	AuditStats     AuditStats  `json:"audit_stats"`
	AuditIssues    AuditIssues `json:"audit_issues"`
	ExecutionTime  float64     `json:"execution_time"`
}
