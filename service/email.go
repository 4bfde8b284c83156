package service

import (
	"fmt"
	"strings"

	"budget/config"
	"budget/models"

	"gopkg.in/gomail.v2"
)

// EmailNotifier 周期记账邮件通知
// 投递错误一律在边界内捕获并转成 NotifyOutcome，不向调用方抛出
type EmailNotifier struct {
	cfg *config.EmailConfig
}

// NewEmailNotifier 创建邮件通知服务
func NewEmailNotifier(cfg *config.EmailConfig) *EmailNotifier {
	return &EmailNotifier{cfg: cfg}
}

// Notify 给用户发送本期自动入账汇总邮件
func (s *EmailNotifier) Notify(email string, items []models.BudgetItem) NotifyOutcome {
	if !s.cfg.Enabled {
		return NotifyOutcome{Success: false, Reason: "邮件服务未启用，请配置 EMAIL_ENABLED=true"}
	}
	if len(items) == 0 {
		return NotifyOutcome{Success: true}
	}

	subject := "【个人预算系统】周期条目自动入账通知"
	body := s.generateRecurringEmailBody(items)

	if err := s.sendEmail(email, subject, body); err != nil {
		return NotifyOutcome{Success: false, Reason: err.Error()}
	}
	return NotifyOutcome{Success: true}
}

// typeLabel 收支类型显示文案
func typeLabel(t string) string {
	if t == models.TypeIncome {
		return `<span style="color: #16a34a;">收入</span>`
	}
	return `<span style="color: #dc2626;">支出</span>`
}

// recurrenceLabel 周期规则显示文案
func recurrenceLabel(r string) string {
	switch r {
	case models.RecurrenceDaily:
		return "每天"
	case models.RecurrenceWeekly:
		return "每周"
	case models.RecurrenceBiweekly:
		return "每两周"
	case models.RecurrenceMonthly:
		return "每月"
	case models.RecurrenceYearly:
		return "每年"
	default:
		return "一次性"
	}
}

// generateRecurringEmailBody 生成周期入账汇总邮件内容
// 明细表格 + 带符号的净影响合计
func (s *EmailNotifier) generateRecurringEmailBody(items []models.BudgetItem) string {
	var rows strings.Builder
	total := 0.0
	for _, item := range items {
		total += item.SignedAmount()
		rows.WriteString(fmt.Sprintf(`
            <tr>
                <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
                <td style="padding: 8px; border: 1px solid #ddd;">￥%.2f</td>
                <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
                <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
                <td style="padding: 8px; border: 1px solid #ddd;">%s</td>
            </tr>`,
			item.Name, item.Amount, typeLabel(item.Type), item.Category, recurrenceLabel(item.Recurrence)))
	}

	totalColor := "#16a34a"
	totalText := "（收入为主）"
	if total < 0 {
		totalColor = "#dc2626"
		totalText = "（支出为主）"
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: 'Microsoft YaHei', Arial, sans-serif; background: #f5f5f5; margin: 0; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background: #fff; border-radius: 12px; overflow: hidden; box-shadow: 0 4px 20px rgba(0,0,0,0.1); }
        .header { background: linear-gradient(135deg, #2563eb, #1d4ed8); color: white; padding: 30px; text-align: center; }
        .header h1 { margin: 0; font-size: 24px; }
        .content { padding: 40px 30px; }
        .content p { color: #333; line-height: 1.8; margin: 0 0 20px; }
        .items { width: 100%%; border-collapse: collapse; margin-top: 20px; }
        .items th { padding: 8px; border: 1px solid #ddd; background-color: #f3f4f6; }
        .total { margin-top: 20px; padding: 15px; background-color: #f3f4f6; border-radius: 5px; }
        .total p { margin: 0; font-weight: bold; }
        .footer { background: #f8f9fa; padding: 20px 30px; text-align: center; color: #6c757d; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>💰 个人预算系统</h1>
        </div>
        <div class="content">
            <p>您好！以下周期条目已按计划自动入账：</p>
            <table class="items">
                <thead>
                    <tr>
                        <th>名称</th>
                        <th>金额</th>
                        <th>类型</th>
                        <th>类别</th>
                        <th>周期</th>
                    </tr>
                </thead>
                <tbody>%s
                </tbody>
            </table>
            <div class="total">
                <p>净影响: <span style="color: %s">￥%.2f %s</span></p>
            </div>
        </div>
        <div class="footer">
            <p>此邮件由系统自动发送，请勿回复</p>
            <p>© 个人预算系统 - 您的个人财务管理助手</p>
        </div>
    </div>
</body>
</html>
`, rows.String(), totalColor, total, totalText)
}

// sendEmail 发送邮件
func (s *EmailNotifier) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.cfg.Username, s.cfg.From))
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("发送邮件失败: %w", err)
	}

	return nil
}

// SendTestEmail 发送测试邮件，用于验证邮箱配置
func (s *EmailNotifier) SendTestEmail(toEmail string) error {
	if !s.cfg.Enabled {
		return fmt.Errorf("邮件服务未启用")
	}

	subject := "【个人预算系统】邮件配置测试"
	body := `
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; padding: 20px;">
    <h2>✅ 邮件配置成功</h2>
    <p>如果您收到这封邮件，说明邮件服务配置正确。</p>
    <p style="color: #666;">—— 个人预算系统</p>
</body>
</html>
`
	return s.sendEmail(toEmail, subject, body)
}
