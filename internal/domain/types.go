package domain

import (
	"fmt"
	"time"
)

type OrderType string

const (
	OrderTypeLoveStory OrderType = "loveStory"
	OrderTypeFamily    OrderType = "family"
	OrderTypeContent   OrderType = "content"
)

var OrderTypes = []OrderType{OrderTypeLoveStory, OrderTypeFamily, OrderTypeContent}

func (t OrderType) Valid() bool {
	switch t {
	case OrderTypeLoveStory, OrderTypeFamily, OrderTypeContent:
		return true
	}
	return false
}

// Name is the customer facing title of the order type.
func (t OrderType) Name() string {
	switch t {
	case OrderTypeLoveStory:
		return "Love story"
	case OrderTypeFamily:
		return "Семейная фотосессия"
	case OrderTypeContent:
		return "Контент-съёмка"
	}
	return string(t)
}

func ParseOrderType(s string) (OrderType, error) {
	t := OrderType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown order type %q", s)
	}
	return t, nil
}

// EntryPoint names a conversation screen.
type EntryPoint string

const (
	EntryWelcome                  EntryPoint = "welcome"
	EntryWelcomeGuest             EntryPoint = "welcomeGuest"
	EntryOrderTypes               EntryPoint = "orderTypes"
	EntryOrderBuilder             EntryPoint = "orderBuilder"
	EntryOrderBuilderStylist      EntryPoint = "orderBuilderStylist"
	EntryOrderBuilderMakeuper     EntryPoint = "orderBuilderMakeuper"
	EntryOrderBuilderPhotographer EntryPoint = "orderBuilderPhotographer"
	EntryOrderBuilderStudio       EntryPoint = "orderBuilderStudio"
	EntryOrderBuilderDate         EntryPoint = "orderBuilderDate"
	EntryOrderCheckout            EntryPoint = "orderCheckout"
	EntryAbout                    EntryPoint = "about"
	EntryPortfolio                EntryPoint = "portfolio"
	EntryUploadPhoto              EntryPoint = "uploadPhoto"
)

var EntryPoints = []EntryPoint{
	EntryWelcome,
	EntryWelcomeGuest,
	EntryOrderTypes,
	EntryOrderBuilder,
	EntryOrderBuilderStylist,
	EntryOrderBuilderMakeuper,
	EntryOrderBuilderPhotographer,
	EntryOrderBuilderStudio,
	EntryOrderBuilderDate,
	EntryOrderCheckout,
	EntryAbout,
	EntryPortfolio,
	EntryUploadPhoto,
}

func (e EntryPoint) Valid() bool {
	for _, known := range EntryPoints {
		if e == known {
			return true
		}
	}
	return false
}

// Role is the kind of participant an order can book.
type Role string

const (
	RoleStylist      Role = "stylist"
	RoleMakeuper     Role = "makeuper"
	RolePhotographer Role = "photographer"
	RoleStudio       Role = "studio"
)

var Roles = []Role{RoleStylist, RoleMakeuper, RolePhotographer, RoleStudio}

func (r Role) Valid() bool {
	switch r {
	case RoleStylist, RoleMakeuper, RolePhotographer, RoleStudio:
		return true
	}
	return false
}

// Person reports whether the role is a human, as opposed to a place.
func (r Role) Person() bool {
	return r != RoleStudio
}

// Entry is the order builder sub-screen listing participants of the role.
func (r Role) Entry() EntryPoint {
	switch r {
	case RoleStylist:
		return EntryOrderBuilderStylist
	case RoleMakeuper:
		return EntryOrderBuilderMakeuper
	case RolePhotographer:
		return EntryOrderBuilderPhotographer
	case RoleStudio:
		return EntryOrderBuilderStudio
	}
	return EntryOrderBuilder
}

func ParseRole(s string) (Role, error) {
	r := Role(s)
	if !r.Valid() {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return r, nil
}

// BuildableType is an entity an admin can assemble field by field in chat.
type BuildableType string

const (
	BuildableStylist      BuildableType = "stylist"
	BuildableMakeuper     BuildableType = "makeuper"
	BuildablePhotographer BuildableType = "photographer"
	BuildableStudio       BuildableType = "studio"
)

func (b BuildableType) Valid() bool {
	return Role(b).Valid()
}

func (b BuildableType) Role() Role {
	return Role(b)
}

func ParseBuildableType(s string) (BuildableType, error) {
	b := BuildableType(s)
	if !b.Valid() {
		return "", fmt.Errorf("unknown buildable type %q", s)
	}
	return b, nil
}

type Platform string

const (
	PlatformTelegram Platform = "tg"
	PlatformVK       Platform = "vk"
)

// PlatformID identifies a chat account: the chat ID for Telegram, the user ID for VK.
type PlatformID struct {
	Platform Platform `json:"platform" validate:"required,oneof=tg vk"`
	ID       int64    `json:"id" validate:"required"`
	Username *string  `json:"username,omitempty"`
}

// Photo is a file already uploaded to a chat platform.
type Photo struct {
	Platform Platform `json:"platform" validate:"required"`
	FileID   string   `json:"fileId" validate:"required"`
}

type Interval struct {
	Start    time.Time     `json:"start"`
	Duration time.Duration `json:"duration" validate:"gt=0"`
}

func (i Interval) End() time.Time {
	return i.Start.Add(i.Duration)
}
