package commands

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const (
	refreshCollectionMessageType = "sitefeed.feed.refresh"
	renderRouteMessageType       = "sitefeed.session.render"
	transformDocumentMessageType = "sitefeed.transform.document"
	validateDocumentMessageType  = "sitefeed.feed.validate"
)

func notBlank(code, message string) validation.Rule {
	return validation.By(func(value any) error {
		text, _ := value.(string)
		if strings.TrimSpace(text) == "" {
			return validation.NewError(code, message)
		}
		return nil
	})
}

// RefreshCollection reloads a collection bypassing caches.
type RefreshCollection struct {
	Collection string `json:"collection"`
}

// Type implements command.Message.
func (RefreshCollection) Type() string { return refreshCollectionMessageType }

// Validate ensures a collection is named.
func (cmd RefreshCollection) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collection, validation.Required,
			notBlank("sitefeed.feed.refresh.collection_required", "collection is required")),
	)
}

// RenderRoute renders the page shell of a collection for one URL.
type RenderRoute struct {
	Collection string `json:"collection"`
	// Shell is the path of the HTML page holding the collection container.
	Shell string `json:"shell"`
	// URL is the page URL, optionally carrying a slug query or fragment.
	URL string `json:"url"`
	// Out receives the rendered page; empty writes to the handler output.
	Out string `json:"out,omitempty"`
}

// Type implements command.Message.
func (RenderRoute) Type() string { return renderRouteMessageType }

// Validate ensures the collection and shell are set.
func (cmd RenderRoute) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collection, validation.Required,
			notBlank("sitefeed.session.render.collection_required", "collection is required")),
		validation.Field(&cmd.Shell, validation.Required,
			notBlank("sitefeed.session.render.shell_required", "shell is required")),
	)
}

// TransformDocument builds a collection document from a Notion export or a
// directory of markdown files.
type TransformDocument struct {
	Collection  string `json:"collection"`
	NotionFile  string `json:"notion_file,omitempty"`
	MarkdownDir string `json:"markdown_dir,omitempty"`
	// Out receives the document; empty writes to the handler output.
	Out string `json:"out,omitempty"`
}

// Type implements command.Message.
func (TransformDocument) Type() string { return transformDocumentMessageType }

// Validate requires exactly one input.
func (cmd TransformDocument) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collection, validation.Required,
			notBlank("sitefeed.transform.document.collection_required", "collection is required")),
		validation.Field(&cmd.NotionFile,
			validation.When(cmd.MarkdownDir == "", validation.Required.Error("either notion_file or markdown_dir is required")),
			validation.When(cmd.MarkdownDir != "", validation.Empty.Error("notion_file and markdown_dir are exclusive")),
		),
	)
}

// ValidateDocument checks a collection document without loading it.
type ValidateDocument struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	// Strict fails when any record is rejected by normalization.
	Strict bool `json:"strict,omitempty"`
}

// Type implements command.Message.
func (ValidateDocument) Type() string { return validateDocumentMessageType }

// Validate ensures the collection and path are set.
func (cmd ValidateDocument) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Collection, validation.Required,
			notBlank("sitefeed.feed.validate.collection_required", "collection is required")),
		validation.Field(&cmd.Path, validation.Required,
			notBlank("sitefeed.feed.validate.path_required", "path is required")),
	)
}
