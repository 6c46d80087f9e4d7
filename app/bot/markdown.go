package bot

import (
	"fmt"
	"sort"
	"strings"
	"text/template"
	"time"

	"github.com/Semior001/newsreader/app/store"
)

// maxContentLen keeps messages under the telegram limit of 4096 characters.
const maxContentLen = 3000

var mdEscaper = strings.NewReplacer(
	`*`, `\*`,
	`_`, `\_`,
	"`", "\\`",
	"[", "\\[",
)

func escapeMarkdown(s string) string {
	return mdEscaper.Replace(s)
}

func escapeArticle(a store.Article) store.Article {
	a.Title = escapeMarkdown(a.Title)
	a.Author = escapeMarkdown(a.Author)
	a.Description = escapeMarkdown(a.Description)
	a.Content = escapeMarkdown(truncate(a.Content, maxContentLen))
	a.SourceName = escapeMarkdown(a.SourceName)
	a.Tag = escapeMarkdown(a.Tag)
	a.Category = escapeMarkdown(a.Category)
	a.BulletPoints = escapeMarkdown(a.BulletPoints)
	return a
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("02 Jan 2006 15:04")
	},
}

var articleMessageTmpl = template.Must(template.New("articleMessage").Funcs(funcs).Parse(`
*{{.Title}}*{{if .Author}} by {{.Author}}{{end}}
{{if .SourceName}}_{{.SourceName}}_ {{end}}{{date .PublishedAt}}{{if .Tag}} #{{.Tag}}{{end}}

{{if .BulletPoints}}{{.BulletPoints}}{{else}}{{.Content}}{{end}}
{{if .VideoLink}}
[video]({{.VideoLink}}){{end}}{{if .URL}}
[source]({{.URL}}){{end}}

/back to the feed
`))

type pollOption struct {
	Name  string
	Votes int
	Share float64
}

type pollView struct {
	Question string
	Options  []pollOption
	Total    int
	Voted    bool
}

var pollMessageTmpl = template.Must(template.New("pollMessage").Parse(`
📊 *{{.Question}}*

{{range .Options}}{{.Name}}: {{printf "%.1f" .Share}}% ({{.Votes}})
{{end}}
Total votes: {{.Total}}
{{if .Voted}}You have voted in this poll.{{else}}Send /vote <option> to vote.{{end}}
`))

var profileMessageTmpl = template.Must(template.New("profileMessage").Parse(`
*{{.Username}}*{{if or .FirstName .LastName}} ({{.FirstName}} {{.LastName}}){{end}}
Role: {{.Role}}
Subscribed: {{.Subscribed}}
Theme: {{.Theme}}{{if .Image}}
[image]({{.Image}}){{end}}

Send /profile <field> <value> to change username, first\_name, last\_name, role or image.
`))

func render(tmpl *template.Template, data any) (string, error) {
	sb := &strings.Builder{}
	if err := tmpl.Execute(sb, data); err != nil {
		return "", fmt.Errorf("execute %s template: %w", tmpl.Name(), err)
	}
	return strings.TrimSpace(sb.String()), nil
}

func renderValidation(errs store.ValidationError) string {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	sb := &strings.Builder{}
	_, _ = sb.WriteString("Please, fix the following:\n")
	for _, f := range fields {
		_, _ = sb.WriteString("• " + escapeMarkdown(errs[f]) + "\n")
	}
	return strings.TrimSpace(sb.String())
}
