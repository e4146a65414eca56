package sharepoint

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

const (
	// DefaultTokenURL is the app-only token endpoint; %s is the tenant ID.
	DefaultTokenURL = "https://login.microsoftonline.com/%s/tokens/OAuth/2"

	// principal is the well-known SharePoint Online application ID used to
	// build the token resource.
	principal = "00000003-0000-0ff1-ce00-000000000000"

	// DefaultFolder is the document library every site starts with.
	DefaultFolder = "Shared Documents"
)

// Config holds SharePoint app-only credentials and the target site.
type Config struct {
	ClientID string // Azure ACS client ID
	TenantID string // Azure tenant ID
	Secret   string // client secret
	Domain   string // e.g. contoso.sharepoint.com
	Site     string // site name under /sites/
	TokenURL string // optional token endpoint override
}

// ParseConfig extracts configuration from a map. Keys are accepted in
// camelCase or snake_case.
func ParseConfig(m map[string]any) (*Config, error) {
	cfg := &Config{
		ClientID: getString(m, "clientId", getString(m, "client_id", "")),
		TenantID: getString(m, "tenantId", getString(m, "tenant_id", "")),
		Secret:   getString(m, "secret", getString(m, "client_secret", "")),
		Domain:   getString(m, "domain", ""),
		Site:     getString(m, "site", ""),
		TokenURL: getString(m, "tokenUrl", getString(m, "token_url", "")),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first missing setting.
func (c *Config) Validate() error {
	switch {
	case c.ClientID == "":
		return fmt.Errorf("clientId is required")
	case c.TenantID == "":
		return fmt.Errorf("tenantId is required")
	case c.Secret == "":
		return fmt.Errorf("secret is required")
	case c.Domain == "":
		return fmt.Errorf("domain is required")
	case c.Site == "":
		return fmt.Errorf("site is required")
	}
	return nil
}

// Principal is the client ID qualified with the tenant, as ACS expects it.
func (c *Config) Principal() string {
	return c.ClientID + "@" + c.TenantID
}

// Resource is the audience requested for the access token.
func (c *Config) Resource() string {
	return fmt.Sprintf("%s/%s@%s", principal, c.Domain, c.TenantID)
}

// APIURL is the REST root of the configured site.
func (c *Config) APIURL() string {
	return fmt.Sprintf("https://%s/sites/%s/_api/web", c.Domain, c.Site)
}

func (c *Config) tokenEndpoint() string {
	if c.TokenURL != "" {
		return c.TokenURL
	}
	return fmt.Sprintf(DefaultTokenURL, c.TenantID)
}

func getString(m map[string]any, key, def string) string {
	if v, ok := m[key].(string); ok && v != "" {
		return v
	}
	return def
}

// Options tunes the client. The zero value is usable.
type Options struct {
	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// TokenSource replaces the client-credentials flow.
	TokenSource oauth2.TokenSource

	// BaseURL replaces Config.APIURL().
	BaseURL string

	// Transport is used for both token and API requests.
	Transport http.RoundTripper

	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
	RateLimit  float64
	RateBurst  int
}

// =============================================================================
// ENTITIES
// =============================================================================

// Metadata is the __metadata block of every OData verbose entity.
type Metadata struct {
	URI  string `json:"uri"`
	Type string `json:"type"`
}

// List is a SharePoint list or document library.
type List struct {
	Entity
	ID           string `json:"Id"`
	Title        string `json:"Title"`
	Description  string `json:"Description"`
	ItemCount    int    `json:"ItemCount"`
	Hidden       bool   `json:"Hidden"`
	EntityType   string `json:"ListItemEntityTypeFullName"`
	BaseTemplate int    `json:"BaseTemplate"`
}

// Field is a column of a list.
type Field struct {
	Entity
	ID              string `json:"Id"`
	StaticName      string `json:"StaticName"`
	Title           string `json:"Title"`
	InternalName    string `json:"InternalName"`
	Description     string `json:"Description"`
	Required        bool   `json:"Required"`
	Hidden          bool   `json:"Hidden"`
	DefaultValue    any    `json:"DefaultValue"`
	CustomFormatter string `json:"CustomFormatter"`
	FieldType       string `json:"TypeAsString"`
	FieldTypeKind   int    `json:"FieldTypeKind"`
}

// Item is a list item. Properties holds the user-created values with
// their keys decoded.
type Item struct {
	Entity
	ID         int            `json:"Id"`
	Properties map[string]any `json:"-"`
}

// Folder is a folder in a document library.
type Folder struct {
	Entity
	Name              string `json:"Name"`
	TimeCreated       string `json:"TimeCreated"`
	ItemCount         int    `json:"ItemCount"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
}

// File is a file in a document library.
type File struct {
	Entity
	Name              string `json:"Name"`
	TimeCreated       string `json:"TimeCreated"`
	ServerRelativeURL string `json:"ServerRelativeUrl"`
	Length            string `json:"Length"`
}

// ListOptions configures CreateList.
type ListOptions struct {
	Description string
	// DocumentLibrary creates a library (template 101) instead of a
	// generic list (100).
	DocumentLibrary bool
	// KeepTitleRequired leaves the built-in Title column required.
	KeepTitleRequired bool
}

// Base templates used by CreateList.
const (
	TemplateGenericList     = 100
	TemplateDocumentLibrary = 101
)

// autoListFields are static names of columns SharePoint adds on its own.
var autoListFields = setOf(
	"AccessPolicy", "AppAuthor", "AppEditor", "Attachments", "BaseName", "ComplianceAssetId",
	"ContentType", "ContentTypeId", "ContentVersion", "Created_x0020_Date", "DocIcon", "Edit", "Editor",
	"EncodedAbsUrl", "FSObjType", "FileDirRef", "FileLeafRef", "FileRef", "File_x0020_Type",
	"FolderChildCount", "HTML_x0020_File_x0020_Type", "ID", "InstanceID", "ItemChildCount",
	"Last_x0020_Modified", "LinkFilename", "LinkFilename2", "LinkFilenameNoMenu", "LinkTitle",
	"LinkTitle2", "LinkTitleNoMenu", "MetaInfo", "NoExecute", "Order", "OriginatorId", "ParentUniqueId",
	"PermMask", "PrincipalCount", "ProgId", "Restricted", "SMLastModifiedDate", "SMTotalFileCount",
	"SMTotalFileStreamSize", "SMTotalSize", "ScopeId", "SelectTitle", "ServerUrl", "SortBehavior",
	"SyncClientId", "Title", "UniqueId", "WorkflowInstanceID", "WorkflowVersion", "_CommentCount",
	"_CommentFlags", "_ComplianceFlags", "_ComplianceTag", "_ComplianceTagUserId",
	"_ComplianceTagWrittenTime", "_CopySource", "_EditMenuTableEnd", "_EditMenuTableStart",
	"_EditMenuTableStart2", "_HasCopyDestinations", "_IsCurrentVersion", "_IsRecord", "_Level",
	"_ModerationComments", "_ModerationStatus", "_UIVersion", "_UIVersionString", "_VirusInfo",
	"_VirusStatus", "_VirusVendorID",
	"Modified_x0020_By", "owshiddenversion", "_DisplayName", "_IpLabelPromotionCtagVersion",
	"CheckedOutTitle", "xd_Signature", "BSN", "_IpLabelHash", "TriggerFlowInfo", "_HasEncryptedContent",
	"Author", "FileSizeDisplay", "_SharedFileIndex", "DocConcurrencyNumber", "_CheckinComment",
	"Created_x0020_By", "_ExtendedDescription", "StreamHash", "VirusStatus", "_RmsTemplateId",
	"_IpLabelAssignmentMethod", "A2ODMountCount", "xd_ProgID", "_Dirty", "_ShortcutWebId", "_LikeCount",
	"_StubFile", "Modified", "ParentVersionString", "File_x0020_Size", "LinkCheckedOutTitle",
	"ParentLeafName", "_ShortcutUniqueId", "GUID", "_IpLabelId", "Combine", "CheckoutUser",
	"TemplateUrl", "RepairDocument", "_ShortcutUrl", "CheckedOutUserId", "SelectFilename",
	"_ShortcutSiteId", "PolicyDisabledUICapabilities", "_ExpirationDate", "_ListSchemaVersion",
	"IsCheckedoutToLocal", "_SourceUrl", "_HasUserDefinedProtection", "Created", "_Parsable",
)

// autoItemProperties are item properties that are not column values.
var autoItemProperties = setOf(
	"AttachmentFiles", "AuthorId", "CheckoutUserId", "ComplianceAssetId",
	"ContentType", "ContentTypeId", "Created", "EditorId",
	"FieldValuesAsHtml", "FieldValuesAsText",
	"FieldValuesForEdit", "File", "FileSystemObjectType", "FirstUniqueAncestorSecurableObject",
	"Folder", "GUID", "GetDlpPolicyTip", "ID", "Id", "LikedByInformation", "Modified",
	"OData__CopySource", "OData__UIVersionString", "ParentList", "Properties", "RoleAssignments",
	"ServerRedirectedEmbedUri", "ServerRedirectedEmbedUrl", "Title", "Versions", "__metadata",
	"Attachments",
)

// IsAutoField reports whether staticName is a built-in list column.
func IsAutoField(staticName string) bool {
	return autoListFields[staticName]
}

func setOf(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}
