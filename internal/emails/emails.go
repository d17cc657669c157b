// Package emails renders the investor gate emails: plain text through Handlebars
// templates, HTML through gomponents so every user-supplied value is escaped.
package emails

import (
	"embed"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/aymerick/raymond"
	g "maragu.dev/gomponents"
	. "maragu.dev/gomponents/html"

	"github.com/vitalos/website/internal/domain"
)

//go:embed templates/*.hbs
var templateFS embed.FS

var (
	accessCodeText    = mustTemplate("templates/access_code.txt.hbs")
	accessRequestText = mustTemplate("templates/access_request.txt.hbs")
)

func mustTemplate(name string) *raymond.Template {
	src, err := templateFS.ReadFile(name)
	if err != nil {
		panic(fmt.Sprintf("emails: read %s: %v", name, err))
	}
	return raymond.MustParse(string(src))
}

// Rendered is a subject with text and HTML bodies.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// AccessCode is the email carrying the code to the requester.
func AccessCode(name, code string, validFor time.Duration) (Rendered, error) {
	minutes := strconv.Itoa(int(validFor / time.Minute))

	text, err := accessCodeText.Exec(map[string]any{
		"name":    name,
		"code":    code,
		"minutes": minutes,
	})
	if err != nil {
		return Rendered{}, fmt.Errorf("render access code text: %w", err)
	}

	body := Div(
		Style("font-family:Inter,system-ui,-apple-system,Segoe UI,Roboto,Arial,sans-serif;line-height:1.5;color:#111"),
		P(g.Textf("Hi %s,", name)),
		P(g.Text("Use this code to view the "), Strong(g.Text("Vitalos Investors")), g.Text(" page:")),
		P(Style("font-size:24px;letter-spacing:4px;margin:16px 0"), Strong(g.Text(code))),
		P(g.Text("This code is valid for "), Strong(g.Textf("%s minutes", minutes)), g.Text(".")),
		P(g.Text("If you didn't request this, you can ignore this email.")),
		P(g.Text("- Vitalos Team")),
	)
	html, err := render(body)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Subject: "Your Vitalos investor access code",
		Text:    text,
		HTML:    html,
	}, nil
}

type line struct {
	Label string `handlebars:"label"`
	Value string `handlebars:"value"`
}

// AccessRequestNotification tells staff who asked for access. It is an audit
// side channel and plays no part in verification.
func AccessRequestNotification(meta domain.AccessRequestMeta) (Rendered, error) {
	req := meta.Request
	lines := []line{
		{"Name", req.FullName},
		{"Email", req.Email},
		{"Organisation", req.Organisation},
		{"Role", req.Role},
		{"Consented to contact", strconv.FormatBool(req.Consent)},
		{"IP", meta.IP},
		{"UA", meta.UserAgent},
		{"Time", meta.RequestedAt.UTC().Format(time.RFC3339)},
	}

	text, err := accessRequestText.Exec(map[string]any{"lines": lines})
	if err != nil {
		return Rendered{}, fmt.Errorf("render access request text: %w", err)
	}

	body := g.Group{
		H3(g.Text("New investor access request")),
		Ul(g.Map(lines, func(l line) g.Node {
			return Li(g.Textf("%s: %s", l.Label, l.Value))
		})),
	}
	html, err := render(body)
	if err != nil {
		return Rendered{}, err
	}

	return Rendered{
		Subject: fmt.Sprintf("Investor access request - %s (%s)", req.FullName, req.Organisation),
		Text:    text,
		HTML:    html,
	}, nil
}

func render(n g.Node) (string, error) {
	var b strings.Builder
	if err := n.Render(&b); err != nil {
		return "", fmt.Errorf("render html: %w", err)
	}
	return b.String(), nil
}
