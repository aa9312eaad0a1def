package conversation

import (
	"context"
	"errors"
	"fmt"
	"maps"

	"github.com/google/uuid"

	"photoshoot-bot/internal/domain"
	"photoshoot-bot/internal/payload"
)

// Keys of the build object.
const (
	FieldName   = "name"
	FieldPrice  = "price"
	FieldUserID = "userId"
	FieldPhotos = "photos"
)

// ErrMalformedBuild means a build object field has the wrong type.
var ErrMalformedBuild = errors.New("conversation: malformed build object")

func (m *Machine) build(ctx context.Context, user domain.User, s Session, ev Event) (Result, error) {
	if !user.IsAdmin {
		return Result{}, fmt.Errorf("%w: building requires an admin", ErrForbidden)
	}

	if start, ok := ev.(StartBuild); ok {
		if !start.Type.Valid() {
			return Result{}, fmt.Errorf("%w: buildable type %q", ErrInvalidChoice, start.Type)
		}
		b := payload.Build{Type: start.Type, Object: map[string]payload.Value{}}
		return Result{Session: s.push(domain.EntryUploadPhoto, b)}, nil
	}

	b, ok := s.Payload.(payload.Build)
	if !ok {
		return Result{}, unexpected(s, ev)
	}

	switch ev := ev.(type) {
	case BuildField:
		if ev.Key == FieldPhotos {
			return Result{}, fmt.Errorf("%w: photos are uploaded, not typed", ErrInvalidChoice)
		}
		object := maps.Clone(b.Object)
		if object == nil {
			object = map[string]payload.Value{}
		}
		object[ev.Key] = ev.Value
		return Result{Session: s.replace(s.Entry, payload.Build{Type: b.Type, Object: object})}, nil

	case BuildPhoto:
		object := maps.Clone(b.Object)
		if object == nil {
			object = map[string]payload.Value{}
		}
		photos, _ := object[FieldPhotos].AsArray()
		photos = append(append([]payload.Value(nil), photos...), photoValue(ev.Photo))
		object[FieldPhotos] = payload.Array(photos...)
		return Result{Session: s.replace(s.Entry, payload.Build{Type: b.Type, Object: object})}, nil

	case SubmitBuild:
		draft, err := ParticipantDraft(b)
		if err != nil {
			return Result{}, err
		}
		p, err := m.creator.CreateParticipant(ctx, draft)
		if err != nil {
			return Result{}, err
		}
		return Result{Session: NewSession(false), Participant: &p}, nil
	}
	return Result{}, unexpected(s, ev)
}

func photoValue(p domain.Photo) payload.Value {
	return payload.Object(map[string]payload.Value{
		"platform": payload.String(string(p.Platform)),
		"fileId":   payload.String(p.FileID),
	})
}

// ParticipantDraft reads a build object. Missing fields stay empty so the
// validation gate can report them; fields of the wrong type fail here.
func ParticipantDraft(b payload.Build) (domain.ParticipantDraft, error) {
	draft := domain.ParticipantDraft{Role: b.Type.Role()}

	if v, ok := b.Object[FieldName]; ok && !v.IsNull() {
		name, ok := v.AsString()
		if !ok {
			return domain.ParticipantDraft{}, fmt.Errorf("%w: %s must be a string", ErrMalformedBuild, FieldName)
		}
		draft.Name = name
	}

	if v, ok := b.Object[FieldPrice]; ok && !v.IsNull() {
		price, ok := v.AsNumber()
		if !ok {
			return domain.ParticipantDraft{}, fmt.Errorf("%w: %s must be a number", ErrMalformedBuild, FieldPrice)
		}
		draft.Price = price
	}

	if v, ok := b.Object[FieldUserID]; ok && !v.IsNull() {
		raw, _ := v.AsString()
		id, err := uuid.Parse(raw)
		if err != nil {
			return domain.ParticipantDraft{}, fmt.Errorf("%w: %s: %v", ErrMalformedBuild, FieldUserID, err)
		}
		draft.UserID = &id
	}

	photos, _ := b.Object[FieldPhotos].AsArray()
	for i, v := range photos {
		obj, ok := v.AsObject()
		if !ok {
			return domain.ParticipantDraft{}, fmt.Errorf("%w: photo %d must be an object", ErrMalformedBuild, i)
		}
		platform, _ := obj["platform"].AsString()
		fileID, _ := obj["fileId"].AsString()
		draft.Photos = append(draft.Photos, domain.Photo{Platform: domain.Platform(platform), FileID: fileID})
	}
	return draft, nil
}
