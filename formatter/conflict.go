package formatter

// ConflictIssueFormatter shows the two competing edits on separate note lines.
type ConflictIssueFormatter struct{}

func (f *ConflictIssueFormatter) IssueTemplate() string {
	return `{{header .Rule .MaxLineNumWidth .Filename .StartLine .StartColumn}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underlineAndMessage .Message .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent -}}
{{range lines .Note}}{{note . $.Padding}}{{end}}
`
}
