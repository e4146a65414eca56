// Package sharepoint is a client for the REST API of a SharePoint Online
// site. It authenticates app-only through client credentials, and covers
// lists, columns, items, folders and files. Column provisioning feeds the
// descriptors produced by the columns package to List.CreateField one at a
// time.
//
// Structure:
//
//	types.go   - Config, Options and the entity types
//	client.go  - Client, token source, site-level operations, RemoteError
//	entity.go  - OData verbose decoding and deferred links
//	list.go    - list, field, item, folder and file operations
package sharepoint
