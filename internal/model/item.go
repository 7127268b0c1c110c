package model

import "time"

// ItemRole is the sum-type discriminator for an Item: exactly one role
// is primary per row. IsMenu is kept as an independent flag because a
// RoleClip item may simultaneously be surfaced in the tray menu.
type ItemRole string

const (
	RoleBoard     ItemRole = "board"
	RoleClip      ItemRole = "clip"
	RoleMenu      ItemRole = "menu"
	RoleFolder    ItemRole = "folder"
	RoleSeparator ItemRole = "separator"
)

// ClipKind narrows a RoleClip item to one payload shape.
type ClipKind string

const (
	ClipKindText        ClipKind = "text"
	ClipKindCode        ClipKind = "code"
	ClipKindLink        ClipKind = "link"
	ClipKindPath        ClipKind = "path"
	ClipKindImage       ClipKind = "image"
	ClipKindTemplate    ClipKind = "template"
	ClipKindForm        ClipKind = "form"
	ClipKindCommand     ClipKind = "command"
	ClipKindWebRequest  ClipKind = "web_request"
	ClipKindWebScraping ClipKind = "web_scraping"
	ClipKindVideo       ClipKind = "video"
)

// Item is a user-curated snippet or organizational node (clip, menu entry,
// folder, board, or separator), sharing one flat table with a discriminator
// sum-type redesign.
type Item struct {
	ID          string `gorm:"primaryKey;size:21"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
	Name        string
	Description string
	Value       string `gorm:"type:text"`

	Role   ItemRole `gorm:"size:16;index"`
	IsMenu bool

	IsText        bool
	IsCode        bool
	IsLink        bool
	IsPath        bool
	IsImage       bool
	IsTemplate    bool
	IsForm        bool
	IsCommand     bool
	IsWebRequest  bool
	IsWebScraping bool
	IsVideo       bool

	ImagePath          string
	ImageWidth         int
	ImageHeight        int
	ImagePreviewHeight int
	ImageHash          string `gorm:"size:16"`

	CommandRequestOutput    string `gorm:"type:text"`
	CommandRequestLastRunAt *time.Time
	RequestOptions          RawJSON `gorm:"type:json"`
	FormTemplateOptions     RawJSON `gorm:"type:json"`

	Color               string
	BorderWidth         int
	Icon                string
	IconVisibility      bool
	Layout              string
	LayoutSplit         int
	LayoutItemsMaxWidth int
	ShowDescription     bool

	IsActive          bool `gorm:"default:true"`
	IsDisabled        bool
	IsDeleted         bool `gorm:"index"`
	IsProtected       bool
	IsPinned          bool `gorm:"index"`
	IsFavorite        bool
	PinnedOrderNumber int
}

func (Item) TableName() string { return "items" }

// ClipKind reports which single clip payload shape a RoleClip item
// carries, derived from its IsXxx flags. Returns "" for non-clip roles.
func (i Item) ClipKind() ClipKind {
	switch {
	case i.IsText:
		return ClipKindText
	case i.IsCode:
		return ClipKindCode
	case i.IsLink:
		return ClipKindLink
	case i.IsPath:
		return ClipKindPath
	case i.IsImage:
		return ClipKindImage
	case i.IsTemplate:
		return ClipKindTemplate
	case i.IsForm:
		return ClipKindForm
	case i.IsCommand:
		return ClipKindCommand
	case i.IsWebRequest:
		return ClipKindWebRequest
	case i.IsWebScraping:
		return ClipKindWebScraping
	case i.IsVideo:
		return ClipKindVideo
	default:
		return ""
	}
}

// RequestOptions is the strict schema backing Item.RequestOptions, a
// typed column replacing a free-form JSON blob.
type RequestOptions struct {
	URL               string            `json:"url"`
	Method            string            `json:"method"`
	Headers           map[string]string `json:"headers,omitempty"`
	Body              string            `json:"body,omitempty"`
	OutputTemplate    string            `json:"output_template,omitempty"`
	OutputRegexFilter string            `json:"output_regex_filter,omitempty"`
	ExecHomeDir       string            `json:"exec_home_dir,omitempty"`
}

// TemplateOption is one substitution slot in a template-fill clip.
type TemplateOption struct {
	Label         string `json:"label"`
	Value         string `json:"value"`
	IsValueMasked bool   `json:"is_value_masked"`
	IsEnable      bool   `json:"is_enable"`
}

// FormField is one step of a form-fill clip.
type FormField struct {
	PressKeysAfterPaste string `json:"press_keys_after_paste,omitempty"`
	IsDelayOnly         bool   `json:"is_delay_only"`
	IsPressKeysOnly     bool   `json:"is_press_keys_only"`
	Value               string `json:"value"`
	IsEnable            bool   `json:"is_enable"`
}

// FormTemplateOptions is the strict schema backing
// Item.FormTemplateOptions, covering both template-fill and form-fill
// clips.
type FormTemplateOptions struct {
	Fields            []FormField      `json:"fields,omitempty"`
	OpenURL           string           `json:"open_url,omitempty"`
	IsOpenURLDisabled bool             `json:"is_open_url_disabled"`
	TemplateOptions   []TemplateOption `json:"template_options,omitempty"`
}
