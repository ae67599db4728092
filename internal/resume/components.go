package resume

import (
	"golang.org/x/text/language"

	"github.com/vango-dev/vtree/pkg/reconcile"
	"github.com/vango-dev/vtree/pkg/vdom"
)

// localeKey is the context entry ResumeComponent provides to its subtree.
const localeKey = "resume.locale"

func localeOf(ctx reconcile.Context) language.Tag {
	if tag, ok := ctx[localeKey].(language.Tag); ok {
		return tag
	}
	return supported[0]
}

// SectionComponent renders a titled section around its children.
var SectionComponent = reconcile.NewFunc("Section", func(p vdom.Props, _ reconcile.Context) *vdom.VNode {
	return vdom.Section(
		vdom.H1(p.String("title")),
		vdom.Hr(),
		p["children"],
	)
})

// TimeComponent renders a <time> element for a partial date in the
// context locale. Props: datetime (string), month (bool).
var TimeComponent = reconcile.NewFunc("Time", func(p vdom.Props, ctx reconcile.Context) *vdom.VNode {
	raw := p.String("datetime")
	d, err := ParseDate(raw)
	if err != nil {
		return vdom.Text(raw)
	}
	withMonth, _ := p["month"].(bool)
	text := FormatDate(d, localeOf(ctx), withMonth)
	if d.IsZero() {
		return vdom.Text(text)
	}
	return vdom.H("time", vdom.Props{"dateTime": raw}, text)
})

// HeaderComponent renders the name, label and contact list.
var HeaderComponent = reconcile.NewFunc("Header", func(p vdom.Props, _ reconcile.Context) *vdom.VNode {
	b, _ := p["basics"].(Basics)
	contacts := []*vdom.VNode{
		contact("tel:"+b.Phone, b.Phone),
		contact("mailto:"+b.Email, b.Email),
		contact(b.Website, b.Website),
	}
	for _, profile := range b.Profiles {
		contacts = append(contacts, vdom.Li(
			vdom.Key(profile.Network),
			vdom.Span(vdom.Class("icon", "icon-"+profile.Network)),
			" ",
			vdom.A(vdom.Href(profile.URL), profile.Username),
		))
	}
	return vdom.Div(vdom.Class("resume-header"),
		vdom.Div(
			vdom.H1(b.Name),
			vdom.H2(b.Label),
		),
		vdom.Div(vdom.Class("align-right"),
			vdom.Ul(vdom.Class("contact"), contacts),
		),
	)
})

func contact(href, text string) *vdom.VNode {
	if text == "" {
		return nil
	}
	return vdom.Li(vdom.A(vdom.Href(href), text))
}

func dateRange(start, end string, month bool) *vdom.VNode {
	return vdom.H3(
		vdom.C(TimeComponent, vdom.Prop("datetime", start), vdom.Prop("month", month)),
		" – ",
		vdom.C(TimeComponent, vdom.Prop("datetime", end), vdom.Prop("month", month)),
	)
}

func articleHeader(title, subtitle string, dates *vdom.VNode) *vdom.VNode {
	return vdom.Div(vdom.Class("article-header"),
		vdom.Div(
			vdom.H3(title),
			vdom.Small(vdom.Em(subtitle)),
		),
		vdom.Div(vdom.Class("align-right"), dates),
	)
}

// JobComponent renders one work entry.
var JobComponent = reconcile.NewFunc("Job", func(p vdom.Props, _ reconcile.Context) *vdom.VNode {
	j, _ := p["job"].(Job)
	return vdom.Article(
		articleHeader(j.Position, j.Company, dateRange(j.StartDate, j.EndDate, true)),
		vdom.P(j.Summary),
		vdom.Ul(vdom.Class("job-highlights"),
			vdom.Range(j.Highlights, func(h string, _ int) *vdom.VNode {
				return vdom.Li(h)
			}),
		),
	)
})

// SchoolComponent renders one education entry.
var SchoolComponent = reconcile.NewFunc("School", func(p vdom.Props, _ reconcile.Context) *vdom.VNode {
	s, _ := p["school"].(School)
	return vdom.Article(
		articleHeader(s.Institution, s.Location, dateRange(s.StartDate, s.EndDate, false)),
	)
})

// view is the instance behind ResumeComponent.
type view struct {
	inst *reconcile.Instance
}

func (v *view) Render(p vdom.Props, _ reconcile.State, _ reconcile.Context) *vdom.VNode {
	r, _ := p["resume"].(*Resume)
	if r == nil {
		r = &Resume{}
	}
	return vdom.Div(
		vdom.C(HeaderComponent, vdom.Prop("basics", r.Basic)),
		vdom.C(SectionComponent, vdom.Prop("title", "Experience"),
			vdom.Range(r.Work, func(j Job, _ int) *vdom.VNode {
				return vdom.C(JobComponent, vdom.Key(j.Company+"/"+j.StartDate), vdom.Prop("job", j))
			}),
		),
		vdom.C(SectionComponent, vdom.Prop("title", "Education"),
			vdom.Range(r.Education, func(s School, _ int) *vdom.VNode {
				return vdom.C(SchoolComponent, vdom.Key(s.Institution+"/"+s.StartDate), vdom.Prop("school", s))
			}),
		),
	)
}

// ChildContext passes the matched locale to the date components.
func (v *view) ChildContext() reconcile.Context {
	return reconcile.Context{localeKey: Locale(v.inst.Props().String("locale"))}
}

// ResumeComponent renders a whole resume. Props: resume (*Resume), locale
// (BCP 47 string, default en-US).
var ResumeComponent = reconcile.NewClass("Resume", func(inst *reconcile.Instance) reconcile.Component {
	return &view{inst: inst}
}, reconcile.DefaultProps(vdom.Props{"locale": "en-US"}))

// Render describes r in the given locale.
func Render(r *Resume, locale string) *vdom.VNode {
	return vdom.C(ResumeComponent, vdom.Prop("resume", r), vdom.Prop("locale", locale))
}

// Title is the page title for r.
func Title(r *Resume) string {
	if r.Basic.Label == "" {
		return r.Basic.Name
	}
	return r.Basic.Name + " – " + r.Basic.Label
}

// Styles is the stylesheet the page embeds.
const Styles = `body { font-family: sans-serif; max-width: 50rem; margin: 2rem auto; }
.resume-header, .article-header { display: flex; justify-content: space-between; }
.align-right { text-align: right; }
.contact, .job-highlights { list-style: none; padding: 0; }
.icon { display: inline-block; width: 1em; }
hr { border: 0; border-top: 1px solid #ccc; }`
