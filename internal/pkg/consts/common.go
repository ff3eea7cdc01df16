package consts

// 通知事件类型（闭集）
const (
	NotifyTypeMatchFound      = "match_found"
	NotifyTypeMessageReceived = "message_received"
	NotifyTypeReportResolved  = "report_resolved"
	NotifyTypeCaseResolved    = "case_resolved"
)

// 报告状态
const (
	ReportStatusOpen     = 0
	ReportStatusResolved = 1
	ReportStatusClosed   = 2
)

const (
	DefaultAvatarURL = "default_avatar.png"
)
