package contact

import (
	"bytes"
	"html/template"
	"strings"
)

var emailTemplate = template.Must(template.New("email").Funcs(template.FuncMap{
	"lines": func(s string) []string {
		return strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n")
	},
}).Parse(`<div dir="rtl" style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; background: #f9f9f9; border-radius: 12px; overflow: hidden;">
  <div style="background: #0A0A0A; padding: 24px; text-align: center;">
    <h1 style="color: #C9A962; margin: 0; font-size: 24px;">{{.Title}}</h1>
  </div>
  <div style="padding: 24px;">
    <table style="width: 100%; border-collapse: collapse;">
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: bold; color: #333; width: 120px;">שם:</td>
        <td style="padding: 12px; border-bottom: 1px solid #eee; color: #555;">{{.Name}}</td>
      </tr>
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: bold; color: #333;">טלפון:</td>
        <td style="padding: 12px; border-bottom: 1px solid #eee; color: #555;"><a href="tel:{{.Phone}}" style="color: #C9A962;">{{.Phone}}</a></td>
      </tr>
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: bold; color: #333;">מייל:</td>
        <td style="padding: 12px; border-bottom: 1px solid #eee; color: #555;"><a href="mailto:{{.Email}}" style="color: #C9A962;">{{.Email}}</a></td>
      </tr>
      {{- if .Subject}}
      <tr>
        <td style="padding: 12px; border-bottom: 1px solid #eee; font-weight: bold; color: #333;">נושא:</td>
        <td style="padding: 12px; border-bottom: 1px solid #eee; color: #555;">{{.Subject}}</td>
      </tr>
      {{- end}}
    </table>
    {{- if .Message}}
    <div style="margin-top: 20px; padding: 16px; background: #fff; border-radius: 8px; border: 1px solid #eee;">
      <strong style="color: #333;">הודעה:</strong>
      <p style="color: #555; line-height: 1.6; margin: 8px 0 0;">{{range $i, $l := lines .Message}}{{if $i}}<br>{{end}}{{$l}}{{end}}</p>
    </div>
    {{- end}}
  </div>
  <div style="background: #0A0A0A; padding: 16px; text-align: center;">
    <p style="color: #888; margin: 0; font-size: 12px;">{{.Footer}}</p>
  </div>
</div>
`))

type emailData struct {
	Submission
	Title  string
	Footer string
}

// RenderEmail renders the notification body for s. All fields are escaped;
// message line breaks become <br>.
func RenderEmail(s Submission, title, footer string) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, emailData{Submission: s, Title: title, Footer: footer}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
