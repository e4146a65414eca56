package sharepoint

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/nucleus/ucl-sharepoint/internal/columns"
	httpc "github.com/nucleus/ucl-sharepoint/internal/connector/http"
	"github.com/nucleus/ucl-sharepoint/internal/escape"
	"github.com/nucleus/ucl-sharepoint/internal/fields"
	"github.com/nucleus/ucl-sharepoint/internal/schema"
)

// =============================================================================
// LIST
// =============================================================================

// RootFolder returns the folder backing the list.
func (l *List) RootFolder(ctx context.Context) (*Folder, error) {
	return fetchOne[Folder](ctx, l.client, l.link("RootFolder", "RootFolder"), nil)
}

// Delete removes the list and everything in it.
func (l *List) Delete(ctx context.Context) error {
	return l.delete(ctx)
}

// =============================================================================
// FIELDS
// =============================================================================

// Fields returns every column of the list, built-in ones included.
func (l *List) Fields(ctx context.Context) ([]*Field, error) {
	return fetchAll[Field](ctx, l.client, l.link("Fields", "fields"), nil)
}

// UserCreatedFields returns the columns SharePoint did not add on its own.
func (l *List) UserCreatedFields(ctx context.Context) ([]*Field, error) {
	all, err := l.Fields(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, f := range all {
		if !IsAutoField(f.StaticName) {
			out = append(out, f)
		}
	}
	return out, nil
}

// FieldByStaticName returns the column with the given static name.
func (l *List) FieldByStaticName(ctx context.Context, staticName string) (*Field, error) {
	all, err := l.Fields(ctx)
	if err != nil {
		return nil, err
	}
	for _, f := range all {
		if f.StaticName == staticName {
			return f, nil
		}
	}
	return nil, fmt.Errorf("field with static name %q: %w", staticName, ErrNotFound)
}

// CreateField submits one column-creation payload. SP.FieldCreationInformation
// payloads go to fields/addfield wrapped under "parameters"; everything else
// is posted to fields as is. A payload that is already wrapped is sent
// unchanged to addfield.
func (l *List) CreateField(ctx context.Context, payload map[string]any) (*Field, error) {
	path := l.Metadata.URI + "/fields"
	var body any = payload
	switch {
	case payload["parameters"] != nil:
		path += "/addfield"
	case metadataType(payload) == fields.TypeFieldCreationInformation:
		path += "/addfield"
		body = map[string]any{"parameters": payload}
	}

	resp, err := l.client.post(ctx, path, body)
	if err != nil {
		return nil, err
	}
	return decodeResponse[Field](l.client, resp)
}

// ProvisionColumns creates one column per descriptor, in order, and
// returns the created fields. The first rejected column stops the batch;
// its error is returned as is together with the fields created before it.
func (l *List) ProvisionColumns(ctx context.Context, descriptors []fields.Descriptor) ([]*Field, error) {
	created := make([]*Field, 0, len(descriptors))
	for _, d := range descriptors {
		col := d.Column()
		field, err := l.CreateField(ctx, d.Payload())
		if err != nil {
			l.client.logger.Error("column rejected", "list", l.Title, "title", col.Title, "kind", col.Kind.String(), "error", err)
			return created, err
		}
		l.client.logger.Info("column created", "list", l.Title, "title", col.Title, "kind", col.Kind.String())
		created = append(created, field)
	}
	return created, nil
}

// ProvisionSchema projects root and provisions the resulting columns.
// A nil projector uses the default kind table.
func (l *List) ProvisionSchema(ctx context.Context, p *columns.Projector, root schema.Type) ([]*Field, error) {
	if p == nil {
		p = columns.NewProjector(nil)
	}
	descriptors, err := p.Columns(root)
	if err != nil {
		return nil, err
	}
	return l.ProvisionColumns(ctx, descriptors)
}

// Update PATCHes the column. Keys are escaped.
func (f *Field) Update(ctx context.Context, data map[string]any) error {
	return f.update(ctx, data)
}

// Delete removes the column.
func (f *Field) Delete(ctx context.Context) error {
	return f.delete(ctx)
}

func metadataType(payload map[string]any) string {
	switch m := payload["__metadata"].(type) {
	case map[string]any:
		s, _ := m["type"].(string)
		return s
	case map[string]string:
		return m["type"]
	}
	return ""
}

// =============================================================================
// ITEMS
// =============================================================================

// Items returns every item of the list.
func (l *List) Items(ctx context.Context) ([]*Item, error) {
	return fetchAll[Item](ctx, l.client, l.link("Items", "items"), nil)
}

// QueryItems returns the items matching every filter, restricted to the
// selected columns. Dots in column names are escaped in both; other
// reserved characters must already be in their encoded form.
func (l *List) QueryItems(ctx context.Context, filters, selects []string) ([]*Item, error) {
	query := url.Values{}
	if len(filters) > 0 {
		parts := make([]string, len(filters))
		for i, f := range filters {
			parts[i] = "(" + escape.EncodeField(f) + ")"
		}
		query.Set("$filter", strings.Join(parts, " and "))
	}
	if len(selects) > 0 {
		parts := make([]string, len(selects))
		for i, s := range selects {
			parts[i] = escape.EncodeField(s)
		}
		query.Set("$select", strings.Join(parts, ","))
	}
	return fetchAll[Item](ctx, l.client, l.link("Items", "items"), query)
}

// CreateItem adds an item. Keys of data are column titles; they are
// escaped before sending.
func (l *List) CreateItem(ctx context.Context, data map[string]any) (*Item, error) {
	payload := escape.EncodeKeys(data)
	payload["__metadata"] = map[string]any{"type": l.EntityType}
	resp, err := l.client.post(ctx, l.Metadata.URI+"/items", payload)
	if err != nil {
		return nil, err
	}
	return decodeResponse[Item](l.client, resp)
}

func (i *Item) attach(c *Client, raw map[string]any) {
	i.Entity.attach(c, raw)
	i.Properties = make(map[string]any)
	for key, value := range raw {
		if autoItemProperties[key] {
			continue
		}
		if _, ok := deferredURI(value); ok {
			continue
		}
		i.Properties[escape.Decode(key)] = value
	}
}

// Update PATCHes the item. Keys of data are column titles.
func (i *Item) Update(ctx context.Context, data map[string]any) error {
	return i.update(ctx, data)
}

// Delete removes the item.
func (i *Item) Delete(ctx context.Context) error {
	return i.delete(ctx)
}

// File returns the document behind an item of a document library.
func (i *Item) File(ctx context.Context) (*File, error) {
	return fetchOne[File](ctx, i.client, i.link("File", "File"), nil)
}

// =============================================================================
// FOLDERS AND FILES
// =============================================================================

// Files returns the files directly in the folder.
func (f *Folder) Files(ctx context.Context) ([]*File, error) {
	return fetchAll[File](ctx, f.client, f.link("Files", "Files"), nil)
}

// Folders returns the direct sub-folders.
func (f *Folder) Folders(ctx context.Context) ([]*Folder, error) {
	return fetchAll[Folder](ctx, f.client, f.link("Folders", "Folders"), nil)
}

// GetFile returns the file called name in this folder.
func (f *Folder) GetFile(ctx context.Context, name string) (*File, error) {
	files, err := f.Files(ctx)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if file.Name == name {
			return file, nil
		}
	}
	return nil, fmt.Errorf("file %q in %s: %w", name, f.ServerRelativeURL, ErrNotFound)
}

// CreateFolder creates a sub-folder called name.
func (f *Folder) CreateFolder(ctx context.Context, name string) (*Folder, error) {
	payload := map[string]any{
		"__metadata":        map[string]any{"type": "SP.Folder"},
		"ServerRelativeUrl": f.ServerRelativeURL + "/" + name,
	}
	resp, err := f.client.post(ctx, "folders", payload)
	if err != nil {
		return nil, err
	}
	return decodeResponse[Folder](f.client, resp)
}

// Content downloads the file body.
func (f *File) Content(ctx context.Context) ([]byte, error) {
	resp, err := f.client.call(func(h *httpc.Client) (*httpc.Response, error) {
		return h.Get(ctx, f.Metadata.URI+"/$value", nil)
	})
	if err != nil {
		return nil, err
	}
	return resp.Body, nil
}

// ListItem returns the list item that carries the file's column values.
func (f *File) ListItem(ctx context.Context) (*Item, error) {
	return fetchOne[Item](ctx, f.client, f.link("ListItemAllFields", "ListItemAllFields"), nil)
}
