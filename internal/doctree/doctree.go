package doctree

// Format identifies the source document type.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatEPUB     Format = "epub"
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatDOCX     Format = "docx"
)

// DocTree is the root of a parsed document.
type DocTree struct {
	Format   Format     // Source format
	Title    string     // Document title from metadata, empty if the format carries none
	Creator  string     // Author/creator from metadata
	Children []*DocNode // Top-level sections
}

// DocNode is a recursive section in the document tree.
type DocNode struct {
	Title    string     // Section heading (empty for leaf text)
	Text     string     // Text content; blank lines separate paragraphs
	Page     int        // Source page (0 if N/A); pages render with a separator
	ListItem bool       // Text is a list item
	Children []*DocNode // Subsections
}
