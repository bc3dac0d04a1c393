package blacklist

import (
	"fmt"
	"strings"
)

// Format renders a report as the multi-line reply text. Sections and fields always come in the
// same order: identity, bindings, send statistics and blacklist record
func Format(r Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "📌 用户ID：%s\n", r.User.User)
	if r.DisplayName != "" {
		fmt.Fprintf(&b, "👤 昵称：%s\n", r.DisplayName)
	}

	fmt.Fprintf(&b, "\n📱 关联信息：\n")
	fmt.Fprintf(&b, "- 手机号绑定：%s\n", yesNo(r.User.PhoneBound))
	fmt.Fprintf(&b, "- 微信绑定：%s\n", yesNo(r.User.WechatBound))
	fmt.Fprintf(&b, "- 支付宝绑定：%s\n", yesNo(r.User.AlipayBound))
	fmt.Fprintf(&b, "- 实名认证：%s\n", yesNo(r.User.RealNameVerified))

	fmt.Fprintf(&b, "\n📊 发送统计：\n")
	fmt.Fprintf(&b, "- 加群数：%s\n", r.Stats.GroupCount)
	fmt.Fprintf(&b, "- 月活数量：%s\n", r.Stats.MonthlySendings)
	fmt.Fprintf(&b, "- 累计发送：%s\n", r.Stats.TotalSendings)
	fmt.Fprintf(&b, "- 首次发送：%s\n", r.Stats.FirstSend)
	fmt.Fprintf(&b, "- 末次发送：%s\n", r.Stats.LastSend)

	fmt.Fprintf(&b, "\n🔍 云黑记录：\n")
	fmt.Fprintf(&b, "- 是否云黑：%s\n", yesNo(r.Blacklist.Blacklisted))
	fmt.Fprintf(&b, "- 类型：%s\n", r.Blacklist.Type)
	fmt.Fprintf(&b, "- 原因：%s\n", r.Blacklist.Note)
	fmt.Fprintf(&b, "- 上黑管理：%s\n", r.Blacklist.Admin)
	fmt.Fprintf(&b, "- 云黑等级：%s\n", r.Blacklist.Level)
	fmt.Fprintf(&b, "- 记录日期：%s", r.Blacklist.Date)

	return b.String()
}
