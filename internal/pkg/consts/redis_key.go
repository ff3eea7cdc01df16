package consts

const (
	MessageUnreadKey    = "message:unread:"      // + userID -> 未读私信数缓存
	NotifyUnreadKey     = "notify:unread:"       // + userID -> 未读通知数缓存
	ReportViewKey       = "report:view:"         // + reportID -> 浏览计数器
	ReportViewDirtyKey  = "report:view:dirty"    // 待回写 MySQL 的 reportID 集合
	TokenRevokedKeyTTL  = 24 * 60 * 60           // 登出签名黑名单过期秒数
)
