package mailer

import (
	"bytes"
	"fmt"
	"html/template"
)

const welcomeHTML = `<!DOCTYPE html>
<html>
  <body style="font-family: Arial, sans-serif; color: #222;">
    <h2>Welcome{{if .Name}}, {{.Name}}{{end}}!</h2>
    <p>Your account has been created. You can now log in and start writing posts.</p>
    <p style="color:#888; font-size:12px;">If you did not register this account, you can ignore this email.</p>
  </body>
</html>`

var templates = map[string]*template.Template{
	"welcome": template.Must(template.New("welcome").Parse(welcomeHTML)),
}

// Render renders a named template with data and returns subject, text and html bodies.
func Render(name string, data map[string]any) (subject, text, html string, err error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", "", fmt.Errorf("unknown email template %q", name)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	switch name {
	case "welcome":
		subject = "Welcome to the blog"
		text = "Your account has been created. You can now log in and start writing posts."
	}
	return subject, text, buf.String(), nil
}
