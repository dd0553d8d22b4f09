// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"
)

const (
	EntryNotFoundId Id = iota + 1
	ParseFailedId
	TransformFailedId
	DependencyCycleId
	ConfigLoadFailedId
	ModuleNotMappedId
	BundleExecutionFailedId
	InvalidFormatId
)

type (
	// Id selects a guide.
	Id int

	MarkdownMsg string

	HttpLink string

	// Issue is a Markdown guide explaining a class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the guide text followed by a "See also" list of links.
func (i *Issue) Markdown() string {
	md := string(i.mdMsg)
	if len(i.docLinks) == 0 && len(i.extLinks) == 0 {
		return md
	}
	md += "\n\n## See also\n"
	for _, link := range i.docLinks {
		md += "- <" + string(link) + ">\n"
	}
	for _, link := range i.extLinks {
		md += "- <" + string(link) + ">\n"
	}
	return md
}

// Render renders the guide for a terminal using the given glamour style
// ("dark", "light", "notty", or a JSON style path).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	entryNotFoundIssue = &Issue{
		id: EntryNotFoundId,
		mdMsg: `
# Module file not found!

A module path could not be matched to a file. Paths are resolved relative to
the importing module's directory, and the first file in that directory whose
name starts with the requested name is used.

## Things you can try:
- Check the entry path passed to the command or set in your config file
- Check the spelling of the import specifier in the importing module
- Remember that the extension is optional, ` + "`./util`" + ` finds ` + "`util.js`" + `
- Bare package names such as ` + "`react`" + ` are not supported, use a relative path`,
	}

	parseFailedIssue = &Issue{
		id: ParseFailedId,
		mdMsg: `
# Module could not be parsed!

The file is not a valid ECMAScript module. Only ` + "`import`" + ` and
` + "`export ... from`" + ` declarations are used to find dependencies, but the
whole file must parse.

## Things you can try:
- Fix the syntax error reported above
- Make sure the file is JavaScript and not TypeScript or JSX`,
	}

	transformFailedIssue = &Issue{
		id: TransformFailedId,
		mdMsg: `
# Module could not be transformed!

The module parsed but could not be converted to CommonJS for the selected
target.

## Things you can try:
- Pick a newer target in your config file:
~~~cue
transform: target: "es2020"
~~~
- Remove syntax that the selected target cannot express`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Import cycle detected!

Every import builds a fresh copy of the imported module, so a module that
imports itself, directly or through others, can never finish building.

## Things you can try:
- Move the shared code into a new module that both sides import
- Run ` + "`minipack graph --files`" + ` on a smaller entry to inspect the chain`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded!

## Things you can try:
- Print the configuration file location:
~~~
$ minipack config path
~~~
- Write a fresh default file:
~~~
$ minipack config init
~~~
- Compare your file against the defaults:
~~~
$ minipack config dump
~~~`,
	}

	moduleNotMappedIssue = &Issue{
		id: ModuleNotMappedId,
		mdMsg: `
# Module not found in bundle!

A module called ` + "`require`" + ` with a specifier that was not recorded
while building. Only specifiers that appear in ` + "`import`" + ` or
` + "`export ... from`" + ` declarations are bundled.

## Things you can try:
- Replace dynamic ` + "`require(...)`" + ` calls with static imports
- Make sure the specifier string matches an import declaration exactly`,
	}

	bundleExecutionFailedIssue = &Issue{
		id: BundleExecutionFailedId,
		mdMsg: `
# Bundle threw an exception!

The bundle was built but one of its modules threw while running.

## Things you can try:
- Read the exception above and fix the module that raised it
- Remember that each import runs the imported module again, so modules
  with side effects run once per import`,
	}

	invalidFormatIssue = &Issue{
		id: InvalidFormatId,
		mdMsg: `
# Unknown output format!

## Things you can try:
- Use one of ` + "`text`, `json`, `yaml` or `toml`",
	}

	all = []*Issue{
		entryNotFoundIssue,
		parseFailedIssue,
		transformFailedIssue,
		dependencyCycleIssue,
		configLoadFailedIssue,
		moduleNotMappedIssue,
		bundleExecutionFailedIssue,
		invalidFormatIssue,
	}

	issues = index(all)
)

func index(list []*Issue) map[Id]*Issue {
	m := make(map[Id]*Issue, len(list))
	for _, i := range list {
		m[i.Id()] = i
	}
	return m
}

// Values returns every guide ordered by id.
func Values() []*Issue {
	out := slices.Clone(all)
	slices.SortFunc(out, func(a, b *Issue) int {
		return int(a.id) - int(b.id)
	})
	return out
}

// Get returns the guide for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
