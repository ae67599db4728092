package resume

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/text/language"

	"github.com/vango-dev/vtree/pkg/dom"
	"github.com/vango-dev/vtree/pkg/vdom"
	"github.com/vango-dev/vtree/pkg/vtest"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want Precision
		err  bool
	}{
		{"2015", Year, false},
		{"2015-07", Month, false},
		{"2015-07-14", Day, false},
		{"", 0, false},
		{"July 2015", 0, true},
	}
	for _, tt := range tests {
		d, err := ParseDate(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseDate(%q) error = %v", tt.in, err)
			continue
		}
		if d.Precision != tt.want {
			t.Errorf("ParseDate(%q).Precision = %d, want %d", tt.in, d.Precision, tt.want)
		}
	}
}

func TestLocale(t *testing.T) {
	tests := []struct {
		in   string
		want language.Tag
	}{
		{"en-US", language.AmericanEnglish},
		{"de-AT", language.German},
		{"fr", language.French},
		{"", language.AmericanEnglish},
		{"not a tag!", language.AmericanEnglish},
	}
	for _, tt := range tests {
		if got := Locale(tt.in); got != tt.want {
			t.Errorf("Locale(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	july, _ := ParseDate("2015-07")
	year, _ := ParseDate("2009")

	tests := []struct {
		d     Date
		tag   language.Tag
		month bool
		want  string
	}{
		{july, language.AmericanEnglish, true, "July 2015"},
		{july, language.German, true, "Juli 2015"},
		{july, language.Spanish, true, "julio de 2015"},
		{july, language.AmericanEnglish, false, "2015"},
		{year, language.French, true, "2009"},
		{Date{}, language.German, true, "heute"},
	}
	for _, tt := range tests {
		if got := FormatDate(tt.d, tt.tag, tt.month); got != tt.want {
			t.Errorf("FormatDate(%v, %v, %v) = %q, want %q", tt.d.Time, tt.tag, tt.month, got, tt.want)
		}
	}
}

func TestHeader(t *testing.T) {
	b := Example().Basic
	header := vdom.C(HeaderComponent, vdom.Prop("basics", b))

	vtest.ExpectContains(t, header, "<h1>Ada Lovelace</h1>")
	vtest.ExpectAttribute(t, header, "href", "mailto:ada@example.com")
	vtest.ExpectAttribute(t, header, "class", "icon icon-github")
	vtest.ExpectElement(t, header, "ul")
}

func TestSectionWrapsChildren(t *testing.T) {
	got := vtest.RenderToString(vdom.C(SectionComponent, vdom.Prop("title", "Skills"), vdom.P("Go")))
	if want := "<section><h1>Skills</h1><hr><p>Go</p></section>"; got != want {
		t.Errorf("Section = %q, want %q", got, want)
	}
}

func TestResumeLocalizesDates(t *testing.T) {
	h := vtest.New(t)
	h.Render(Render(Example(), "de-DE"))

	html := h.HTML()
	for _, want := range []string{
		`<time datetime="1842-09">September 1842</time>`,
		`<time datetime="1843-08">August 1843</time>`,
		`<time datetime="1830">1830</time>`,
		"<h1>Experience</h1>",
		"<h1>Education</h1>",
	} {
		if !strings.Contains(html, want) {
			t.Errorf("missing %s in:\n%s", want, html)
		}
	}
}

func TestResumeRerenderTouchesOnlyChanges(t *testing.T) {
	h := vtest.New(t)
	r := Example()
	h.Render(Render(r, "en-US"))

	h.Reset()
	h.Render(Render(r, "en-US"))
	h.ExpectNoMutations()

	next := *r
	next.Work = append([]Job{{Company: "Babbage & Co", Position: "Assistant", StartDate: "1841", EndDate: "1842"}}, r.Work...)
	h.Reset()
	h.Render(Render(&next, "en-US"))

	if got := h.Count(dom.OpRemove); got != 0 {
		t.Errorf("prepending a job removed %d nodes", got)
	}
	articles := h.Root().ChildAt(1).Children()
	var titles []string
	for _, a := range articles {
		if a.IsElement() && a.Tag() == "article" {
			titles = append(titles, a.FirstChild().FirstChild().FirstChild().TextContent())
		}
	}
	if diff := cmp.Diff([]string{"Assistant", "Programmer"}, titles); diff != "" {
		t.Errorf("job order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "resume.yaml")
	data := `basic:
  name: Grace Hopper
work:
  - company: Navy
    position: Officer
    start_date: "1943"
    end_date: ""
education: []
`
	if err := os.WriteFile(yamlPath, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	r, err := Load(yamlPath)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if r.Basic.Name != "Grace Hopper" || len(r.Work) != 1 {
		t.Errorf("Load() = %+v", r)
	}

	badPath := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(badPath, []byte(`{"work":[{"start_date":"someday"}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badPath); err == nil || !strings.Contains(err.Error(), "E150") {
		t.Errorf("Load(bad dates) error = %v, want E150", err)
	}
	if _, err := Load(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("Load(missing) should fail")
	}
}

func TestTitle(t *testing.T) {
	if got := Title(Example()); got != "Ada Lovelace – Analyst" {
		t.Errorf("Title() = %q", got)
	}
}
