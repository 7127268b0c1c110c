// Package types re-exports internal/model's value types for external
// consumers (cmd/clipvaultctl and, eventually, third-party tooling that
// talks to the daemon's HTTP API) that need the wire shapes without
// importing anything under internal/. Everything here is a type alias,
// not a copy: values round-trip between internal/model and pkg/types with
// no conversion.
package types

import "github.com/clipvault/clipvault/internal/model"

type (
	HistoryRecord = model.HistoryRecord
	Item          = model.Item
	Collection    = model.Collection
	Tab           = model.Tab

	CollectionMenuEdge = model.CollectionMenuEdge
	CollectionClipEdge = model.CollectionClipEdge
	LinkMetadata       = model.LinkMetadata
	Setting            = model.Setting

	ItemRole = model.ItemRole
	ClipKind = model.ClipKind

	RequestOptions      = model.RequestOptions
	TemplateOption      = model.TemplateOption
	FormField           = model.FormField
	FormTemplateOptions = model.FormTemplateOptions

	StringList = model.StringList
	RawJSON    = model.RawJSON
)

const (
	RoleBoard     = model.RoleBoard
	RoleClip      = model.RoleClip
	RoleMenu      = model.RoleMenu
	RoleFolder    = model.RoleFolder
	RoleSeparator = model.RoleSeparator

	ClipKindText        = model.ClipKindText
	ClipKindCode        = model.ClipKindCode
	ClipKindLink        = model.ClipKindLink
	ClipKindPath        = model.ClipKindPath
	ClipKindImage       = model.ClipKindImage
	ClipKindTemplate    = model.ClipKindTemplate
	ClipKindForm        = model.ClipKindForm
	ClipKindCommand     = model.ClipKindCommand
	ClipKindWebRequest  = model.ClipKindWebRequest
	ClipKindWebScraping = model.ClipKindWebScraping
	ClipKindVideo       = model.ClipKindVideo

	KindText  = model.KindText
	KindImage = model.KindImage
)
