// Package resume holds the presentational components the CLI renders: a
// resume header, titled sections, work and education entries and localized
// dates, plus the data model they read.
//
// Components are plain vtree behaviors, so any runtime can render them:
//
//	r, err := resume.Load("resume.json")
//	root, err := rt.Render(resume.Render(r, "de-DE"), body, nil)
//
// The locale is matched against the supported languages with
// golang.org/x/text/language and handed to the date components through
// the component context.
package resume
