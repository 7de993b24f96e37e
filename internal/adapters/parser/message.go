package parser

import (
	"encoding/json"
	"fmt"

	"telegram-text-export/internal/domain"
)

type wireMessage struct {
	ID            int         `json:"id"`
	Date          int64       `json:"date"`
	Edited        int64       `json:"edited"`
	FromID        int64       `json:"from_id"`
	ReplyToMsgID  int         `json:"reply_to_msg_id"`
	ForwardedFrom string      `json:"forwarded_from"`
	ViaBotID      int64       `json:"via_bot_id"`
	Signature     string      `json:"signature"`
	Text          string      `json:"text"`
	Action        *wireAction `json:"action"`
	Media         *wireMedia  `json:"media"`
}

// wireAction - плоское представление служебного действия; набор
// заполненных полей зависит от Type.
type wireAction struct {
	Type          string       `json:"type"`
	Title         string       `json:"title"`
	UserIDs       []int64      `json:"user_ids"`
	UserID        int64        `json:"user_id"`
	InviterID     int64        `json:"inviter_id"`
	ChannelID     int64        `json:"channel_id"`
	ChatID        int64        `json:"chat_id"`
	Photo         domain.Photo `json:"photo"`
	GameID        int64        `json:"game_id"`
	Score         int          `json:"score"`
	Currency      string       `json:"currency"`
	Amount        int64        `json:"amount"`
	DiscardReason string       `json:"discard_reason"`
	Duration      int          `json:"duration"`
	Message       string       `json:"message"`
	Domain        string       `json:"domain"`
	Values        []string     `json:"values"`
}

type wirePoint struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"long"`
}

// wireMedia - плоское представление вложения.
type wireMedia struct {
	Type string      `json:"type"`
	TTL  int         `json:"ttl"`
	File domain.File `json:"file"`

	ID           int64  `json:"id"`
	Date         int64  `json:"date"`
	Width        int    `json:"width"`
	Height       int    `json:"height"`
	DocumentType string `json:"document_type"`
	Name         string `json:"name"`
	Mime         string `json:"mime"`
	StickerEmoji string `json:"sticker_emoji"`
	Performer    string `json:"performer"`
	SongTitle    string `json:"song_title"`
	Duration     int    `json:"duration"`

	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	PhoneNumber string `json:"phone_number"`

	Point        *wirePoint `json:"point"`
	Title        string     `json:"title"`
	Address      string     `json:"address"`
	Description  string     `json:"description"`
	ShortName    string     `json:"short_name"`
	BotID        int64      `json:"bot_id"`
	Currency     string     `json:"currency"`
	Amount       int64      `json:"amount"`
	ReceiptMsgID int        `json:"receipt_msg_id"`
}

var discardReasons = map[string]domain.DiscardReason{
	"":           domain.DiscardReasonUnknown,
	"missed":     domain.DiscardReasonMissed,
	"disconnect": domain.DiscardReasonDisconnect,
	"hangup":     domain.DiscardReasonHangup,
	"busy":       domain.DiscardReasonBusy,
}

var secureValueTypes = map[string]domain.SecureValueType{
	"personal_details":       domain.SecureValuePersonalDetails,
	"passport":               domain.SecureValuePassport,
	"driver_license":         domain.SecureValueDriverLicense,
	"identity_card":          domain.SecureValueIdentityCard,
	"internal_passport":      domain.SecureValueInternalPassport,
	"address":                domain.SecureValueAddress,
	"utility_bill":           domain.SecureValueUtilityBill,
	"bank_statement":         domain.SecureValueBankStatement,
	"rental_agreement":       domain.SecureValueRentalAgreement,
	"passport_registration":  domain.SecureValuePassportRegistration,
	"temporary_registration": domain.SecureValueTemporaryRegistration,
	"phone":                  domain.SecureValuePhone,
	"email":                  domain.SecureValueEmail,
}

func decodeMessage(data []byte) (*domain.Message, error) {
	var wire wireMessage
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, err
	}
	forwarded, err := parsePeerID(wire.ForwardedFrom)
	if err != nil {
		return nil, fmt.Errorf("message %d: %w", wire.ID, err)
	}

	message := &domain.Message{
		ID:              wire.ID,
		Date:            wire.Date,
		Edited:          wire.Edited,
		FromID:          wire.FromID,
		ReplyToMsgID:    wire.ReplyToMsgID,
		ForwardedFromID: forwarded,
		ViaBotID:        wire.ViaBotID,
		Signature:       wire.Signature,
		Text:            wire.Text,
	}
	if wire.Action != nil {
		message.Action, err = wire.Action.toDomain()
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", wire.ID, err)
		}
	}
	if wire.Media != nil {
		message.Media, err = wire.Media.toDomain()
		if err != nil {
			return nil, fmt.Errorf("message %d: %w", wire.ID, err)
		}
	}
	return message, nil
}

func (a wireAction) toDomain() (domain.Action, error) {
	switch a.Type {
	case "chat_create":
		return domain.ActionChatCreate{Title: a.Title, UserIDs: a.UserIDs}, nil
	case "chat_edit_title":
		return domain.ActionChatEditTitle{Title: a.Title}, nil
	case "chat_edit_photo":
		return domain.ActionChatEditPhoto{Photo: a.Photo}, nil
	case "chat_delete_photo":
		return domain.ActionChatDeletePhoto{}, nil
	case "chat_add_user":
		return domain.ActionChatAddUser{UserIDs: a.UserIDs}, nil
	case "chat_delete_user":
		return domain.ActionChatDeleteUser{UserID: a.UserID}, nil
	case "chat_joined_by_link":
		return domain.ActionChatJoinedByLink{InviterID: a.InviterID}, nil
	case "channel_create":
		return domain.ActionChannelCreate{Title: a.Title}, nil
	case "chat_migrate_to":
		return domain.ActionChatMigrateTo{ChannelID: a.ChannelID}, nil
	case "channel_migrate_from":
		return domain.ActionChannelMigrateFrom{Title: a.Title, ChatID: a.ChatID}, nil
	case "pin_message":
		return domain.ActionPinMessage{}, nil
	case "history_clear":
		return domain.ActionHistoryClear{}, nil
	case "game_score":
		return domain.ActionGameScore{GameID: a.GameID, Score: a.Score}, nil
	case "payment_sent":
		return domain.ActionPaymentSent{Currency: a.Currency, Amount: a.Amount}, nil
	case "phone_call":
		reason, ok := discardReasons[a.DiscardReason]
		if !ok {
			return nil, fmt.Errorf("discard reason %q: %w", a.DiscardReason, ErrUnknownType)
		}
		return domain.ActionPhoneCall{DiscardReason: reason, Duration: a.Duration}, nil
	case "screenshot_taken":
		return domain.ActionScreenshotTaken{}, nil
	case "custom_action":
		return domain.ActionCustomAction{Message: a.Message}, nil
	case "bot_allowed":
		return domain.ActionBotAllowed{Domain: a.Domain}, nil
	case "secure_values_sent":
		types := make([]domain.SecureValueType, 0, len(a.Values))
		for _, value := range a.Values {
			t, ok := secureValueTypes[value]
			if !ok {
				return nil, fmt.Errorf("secure value %q: %w", value, ErrUnknownType)
			}
			types = append(types, t)
		}
		return domain.ActionSecureValuesSent{Types: types}, nil
	}
	return nil, fmt.Errorf("action %q: %w", a.Type, ErrUnknownType)
}

func (m wireMedia) point() domain.GeoPoint {
	if m.Point == nil {
		return domain.GeoPoint{}
	}
	return domain.GeoPoint{Latitude: m.Point.Latitude, Longitude: m.Point.Longitude, Valid: true}
}

func (m wireMedia) toDomain() (domain.Media, error) {
	media := domain.Media{TTL: m.TTL}
	switch m.Type {
	case "photo":
		media.Content = domain.Photo{
			ID:    m.ID,
			Date:  m.Date,
			Image: domain.Image{Width: m.Width, Height: m.Height, File: m.File},
		}
	case "document":
		document, err := m.document()
		if err != nil {
			return domain.Media{}, err
		}
		media.Content = document
	case "contact":
		media.Content = domain.ContactInfo{
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			PhoneNumber: m.PhoneNumber,
		}
	case "geo":
		media.Content = m.point()
	case "venue":
		media.Content = domain.Venue{Point: m.point(), Title: m.Title, Address: m.Address}
	case "game":
		media.Content = domain.Game{
			ID:          m.ID,
			ShortName:   m.ShortName,
			Title:       m.Title,
			Description: m.Description,
			BotID:       m.BotID,
		}
	case "invoice":
		media.Content = domain.Invoice{
			Title:        m.Title,
			Description:  m.Description,
			Currency:     m.Currency,
			Amount:       m.Amount,
			ReceiptMsgID: m.ReceiptMsgID,
		}
	case "unsupported":
		media.Content = domain.UnsupportedMedia{}
	default:
		return domain.Media{}, fmt.Errorf("media %q: %w", m.Type, ErrUnknownType)
	}
	return media, nil
}

func (m wireMedia) document() (domain.Document, error) {
	document := domain.Document{
		ID:            m.ID,
		File:          m.File,
		Name:          m.Name,
		Mime:          m.Mime,
		StickerEmoji:  m.StickerEmoji,
		SongPerformer: m.Performer,
		SongTitle:     m.SongTitle,
		Width:         m.Width,
		Height:        m.Height,
		Duration:      m.Duration,
	}
	switch m.DocumentType {
	case "", "file":
	case "sticker":
		document.IsSticker = true
	case "video_message":
		document.IsVideoMessage = true
	case "voice_message":
		document.IsVoiceMessage = true
	case "animation":
		document.IsAnimated = true
	case "video_file":
		document.IsVideoFile = true
	case "audio_file":
		document.IsAudioFile = true
	default:
		return domain.Document{}, fmt.Errorf("document type %q: %w", m.DocumentType, ErrUnknownType)
	}
	return document, nil
}
