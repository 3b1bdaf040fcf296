// File: internal/query/selectors.go
package query

// Console URLs.
const (
	SignQueryURL          = "https://alicom-ops.alibaba-inc.com/dysms/dysms_sa/analyze_search/sign"
	SuccessRateQueryURL   = "https://alicom-ops.alibaba-inc.com/dysms/dysms_schedule_data_center/dysms_datacenter_recommend_failure"
	QualificationQueryURL = "https://alicom-ops.alibaba-inc.com/dyorder/dyorder_new/dyorder_search"
)

// Element selectors, kept in one place because the consoles re-roll their
// generated class names between frontend deploys. CSS where the class is
// stable, XPath where matching on rendered text is the only stable handle.
const (
	// Signature query page.
	selPartnerID        = "#PartnerId"
	selSignName         = "#SignName"
	selSignTableRow     = "tr.dumbo-antd-0-1-18-table-row"
	selSignTableCell    = "td.dumbo-antd-0-1-18-table-cell"
	selWorkOrderPrimary = "div.break-all"
	selQueryButton      = `//button[contains(., "查 询") or contains(., "搜 索")]`

	// Success-rate dashboard. The dashboard itself renders inside an SLS
	// iframe; the substrings identify it among the page's frames.
	selDashboardMenu    = `//div[contains(@class, "MenuItem") and contains(., "求德大盘")]`
	frameURLSubstring1  = "sls4service.console.aliyun.com"
	frameURLSubstring2  = "dashboard"
	selRatePIDInput     = `span.obviz-base-filterInput input[autocomplete="off"]`
	selRateTimePicker   = `div[data-spm-click*="time"]`
	selRateTableRow     = "div.obviz-base-easyTable-body div.obviz-base-easyTable-row"
	selRateTableCell    = "div.obviz-base-easyTable-cell"
	selRateValueSpan    = `div[class*="split-container"] span`
	rateTimeOptionXPath = `//li[contains(@class, "obviz-base-li-block") and contains(., %q)]`

	// Qualification work-order page.
	selOrderIDInput       = "#OrderId"
	selQualQueryButton    = `//button[contains(@class, "ant-btn-primary") and contains(., "查 询")]`
	selQualPIDInput       = "#UserId"
	selQualPIDFallback    = `input[placeholder="请输入"]`
	selQualTableRow       = "tr.ant-table-row"
	selQualTableCell      = "td.ant-table-cell"
	selQualIDPre          = `//tr[contains(@class, "ant-table-row") and contains(., "关联资质ID")]//pre`
	selQualIDCells        = `//tr[contains(@class, "ant-table-row") and contains(., "关联资质ID")]//td`
	selGroupIDPre         = `//tr[contains(@class, "ant-table-row") and contains(., "资质组ID")]//pre`
	selGroupIDCells       = `//tr[contains(@class, "ant-table-row") and contains(., "资质组ID")]//td`
	selPaginationDisabled = "li.ant-pagination-next.ant-pagination-disabled"
	selPaginationNextBtn  = "li.ant-pagination-next button"
	orderLinkXPath        = `//a[contains(., %q)]`

	// Rows mentioning this label carry an SMS qualification work order.
	smsQualificationLabel = "短信资质"
)
