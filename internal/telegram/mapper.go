package telegram

import (
	"errors"
	"fmt"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"

	"telegram-text-export/internal/domain"
)

var (
	// ErrEmptyMessage возвращается для messageEmpty: такое сообщение
	// не попадает в экспорт.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrEmptyPeer возвращается для userEmpty и chatEmpty.
	ErrEmptyPeer = errors.New("peer is empty")
)

// DecodeMessage разбирает сериализованный TL-объект сообщения.
func DecodeMessage(data []byte) (tg.MessageClass, error) {
	message, err := tg.DecodeMessage(&bin.Buffer{Buf: data})
	if err != nil {
		return nil, fmt.Errorf("decode message: %w", err)
	}
	return message, nil
}

// DecodeUser разбирает сериализованный TL-объект пользователя.
func DecodeUser(data []byte) (tg.UserClass, error) {
	user, err := tg.DecodeUser(&bin.Buffer{Buf: data})
	if err != nil {
		return nil, fmt.Errorf("decode user: %w", err)
	}
	return user, nil
}

// DecodeChat разбирает сериализованный TL-объект чата или канала.
func DecodeChat(data []byte) (tg.ChatClass, error) {
	chat, err := tg.DecodeChat(&bin.Buffer{Buf: data})
	if err != nil {
		return nil, fmt.Errorf("decode chat: %w", err)
	}
	return chat, nil
}

// MapPeerID переводит TL-ссылку на собеседника в domain.PeerID.
// Каналы и обычные чаты делят одно пространство идентификаторов чатов.
func MapPeerID(peer tg.PeerClass) domain.PeerID {
	switch p := peer.(type) {
	case *tg.PeerUser:
		return domain.UserPeerID(p.UserID)
	case *tg.PeerChat:
		return domain.ChatPeerID(p.ChatID)
	case *tg.PeerChannel:
		return domain.ChatPeerID(p.ChannelID)
	}
	return domain.PeerID{}
}

// MapUser переводит TL-пользователя в domain.User.
func MapUser(user tg.UserClass) (domain.User, error) {
	switch u := user.(type) {
	case *tg.User:
		return domain.User{
			ID: u.ID,
			Info: domain.ContactInfo{
				FirstName:   u.FirstName,
				LastName:    u.LastName,
				PhoneNumber: u.Phone,
			},
			Username: u.Username,
			IsBot:    u.Bot,
		}, nil
	case *tg.UserEmpty:
		return domain.User{ID: u.ID}, fmt.Errorf("user %d: %w", u.ID, ErrEmptyPeer)
	}
	return domain.User{}, fmt.Errorf("unexpected user type %T", user)
}

// MapChat переводит TL-чат или канал в domain.Chat.
func MapChat(chat tg.ChatClass) (domain.Chat, error) {
	switch c := chat.(type) {
	case *tg.Chat:
		return domain.Chat{ID: c.ID, Title: c.Title}, nil
	case *tg.ChatForbidden:
		return domain.Chat{ID: c.ID, Title: c.Title}, nil
	case *tg.Channel:
		return domain.Chat{
			ID:           c.ID,
			Title:        c.Title,
			Username:     c.Username,
			IsBroadcast:  c.Broadcast,
			IsSupergroup: c.Megagroup,
		}, nil
	case *tg.ChannelForbidden:
		return domain.Chat{
			ID:           c.ID,
			Title:        c.Title,
			IsBroadcast:  c.Broadcast,
			IsSupergroup: c.Megagroup,
		}, nil
	case *tg.ChatEmpty:
		return domain.Chat{ID: c.ID}, fmt.Errorf("chat %d: %w", c.ID, ErrEmptyPeer)
	}
	return domain.Chat{}, fmt.Errorf("unexpected chat type %T", chat)
}

// MapMessage переводит TL-сообщение в domain.Message. file - ссылка на
// выгруженный файл вложения; если она пуста, файл считается недоступным.
func MapMessage(message tg.MessageClass, file domain.File) (domain.Message, error) {
	if !file.Valid() {
		file.SkipReason = domain.SkipReasonUnavailable
	}

	switch m := message.(type) {
	case *tg.Message:
		result := domain.Message{
			ID:        m.ID,
			Date:      int64(m.Date),
			Edited:    int64(m.EditDate),
			FromID:    fromUserID(m.FromID, m.PeerID, m.Out),
			ViaBotID:  m.ViaBotID,
			Signature: m.PostAuthor,
			Text:      m.Message,
		}
		if m.FwdFrom.FromID != nil {
			result.ForwardedFromID = MapPeerID(m.FwdFrom.FromID)
		}
		result.ReplyToMsgID = replyToMsgID(m.ReplyTo)
		result.Media = mapMedia(m.Media, file, m.ViaBotID)
		return result, nil
	case *tg.MessageService:
		action, err := mapAction(m.Action, file)
		if err != nil {
			return domain.Message{}, fmt.Errorf("message %d: %w", m.ID, err)
		}
		return domain.Message{
			ID:           m.ID,
			Date:         int64(m.Date),
			FromID:       fromUserID(m.FromID, m.PeerID, m.Out),
			ReplyToMsgID: replyToMsgID(m.ReplyTo),
			Action:       action,
		}, nil
	case *tg.MessageEmpty:
		return domain.Message{}, fmt.Errorf("message %d: %w", m.ID, ErrEmptyMessage)
	}
	return domain.Message{}, fmt.Errorf("unexpected message type %T", message)
}

// fromUserID определяет автора. В личных диалогах входящие сообщения
// приходят без from_id, автором считается собеседник.
func fromUserID(from, peer tg.PeerClass, out bool) int64 {
	if user, ok := from.(*tg.PeerUser); ok {
		return user.UserID
	}
	if from == nil && !out {
		if user, ok := peer.(*tg.PeerUser); ok {
			return user.UserID
		}
	}
	return 0
}

func replyToMsgID(reply tg.MessageReplyHeaderClass) int {
	if header, ok := reply.(*tg.MessageReplyHeader); ok {
		return header.ReplyToMsgID
	}
	return 0
}

func mapAction(action tg.MessageActionClass, file domain.File) (domain.Action, error) {
	switch a := action.(type) {
	case *tg.MessageActionChatCreate:
		return domain.ActionChatCreate{Title: a.Title, UserIDs: a.Users}, nil
	case *tg.MessageActionChatEditTitle:
		return domain.ActionChatEditTitle{Title: a.Title}, nil
	case *tg.MessageActionChatEditPhoto:
		return domain.ActionChatEditPhoto{Photo: mapPhoto(a.Photo, file)}, nil
	case *tg.MessageActionChatDeletePhoto:
		return domain.ActionChatDeletePhoto{}, nil
	case *tg.MessageActionChatAddUser:
		return domain.ActionChatAddUser{UserIDs: a.Users}, nil
	case *tg.MessageActionChatDeleteUser:
		return domain.ActionChatDeleteUser{UserID: a.UserID}, nil
	case *tg.MessageActionChatJoinedByLink:
		return domain.ActionChatJoinedByLink{InviterID: a.InviterID}, nil
	case *tg.MessageActionChannelCreate:
		return domain.ActionChannelCreate{Title: a.Title}, nil
	case *tg.MessageActionChatMigrateTo:
		return domain.ActionChatMigrateTo{ChannelID: a.ChannelID}, nil
	case *tg.MessageActionChannelMigrateFrom:
		return domain.ActionChannelMigrateFrom{Title: a.Title, ChatID: a.ChatID}, nil
	case *tg.MessageActionPinMessage:
		return domain.ActionPinMessage{}, nil
	case *tg.MessageActionHistoryClear:
		return domain.ActionHistoryClear{}, nil
	case *tg.MessageActionGameScore:
		return domain.ActionGameScore{GameID: a.GameID, Score: a.Score}, nil
	case *tg.MessageActionPaymentSent:
		return domain.ActionPaymentSent{Currency: a.Currency, Amount: a.TotalAmount}, nil
	case *tg.MessageActionPhoneCall:
		return domain.ActionPhoneCall{DiscardReason: mapDiscardReason(a.Reason), Duration: a.Duration}, nil
	case *tg.MessageActionScreenshotTaken:
		return domain.ActionScreenshotTaken{}, nil
	case *tg.MessageActionCustomAction:
		return domain.ActionCustomAction{Message: a.Message}, nil
	case *tg.MessageActionBotAllowed:
		return domain.ActionBotAllowed{Domain: a.Domain}, nil
	case *tg.MessageActionSecureValuesSent:
		types := make([]domain.SecureValueType, 0, len(a.Types))
		for _, t := range a.Types {
			if mapped, ok := mapSecureValueType(t); ok {
				types = append(types, mapped)
			}
		}
		return domain.ActionSecureValuesSent{Types: types}, nil
	}
	// Прочие служебные действия выводятся как произвольная информация.
	if action == nil {
		return nil, errors.New("service message without action")
	}
	return domain.ActionCustomAction{Message: action.TypeName()}, nil
}

func mapDiscardReason(reason tg.PhoneCallDiscardReasonClass) domain.DiscardReason {
	switch reason.(type) {
	case *tg.PhoneCallDiscardReasonMissed:
		return domain.DiscardReasonMissed
	case *tg.PhoneCallDiscardReasonDisconnect:
		return domain.DiscardReasonDisconnect
	case *tg.PhoneCallDiscardReasonHangup:
		return domain.DiscardReasonHangup
	case *tg.PhoneCallDiscardReasonBusy:
		return domain.DiscardReasonBusy
	}
	return domain.DiscardReasonUnknown
}

func mapSecureValueType(t tg.SecureValueTypeClass) (domain.SecureValueType, bool) {
	switch t.(type) {
	case *tg.SecureValueTypePersonalDetails:
		return domain.SecureValuePersonalDetails, true
	case *tg.SecureValueTypePassport:
		return domain.SecureValuePassport, true
	case *tg.SecureValueTypeDriverLicense:
		return domain.SecureValueDriverLicense, true
	case *tg.SecureValueTypeIdentityCard:
		return domain.SecureValueIdentityCard, true
	case *tg.SecureValueTypeInternalPassport:
		return domain.SecureValueInternalPassport, true
	case *tg.SecureValueTypeAddress:
		return domain.SecureValueAddress, true
	case *tg.SecureValueTypeUtilityBill:
		return domain.SecureValueUtilityBill, true
	case *tg.SecureValueTypeBankStatement:
		return domain.SecureValueBankStatement, true
	case *tg.SecureValueTypeRentalAgreement:
		return domain.SecureValueRentalAgreement, true
	case *tg.SecureValueTypePassportRegistration:
		return domain.SecureValuePassportRegistration, true
	case *tg.SecureValueTypeTemporaryRegistration:
		return domain.SecureValueTemporaryRegistration, true
	case *tg.SecureValueTypePhone:
		return domain.SecureValuePhone, true
	case *tg.SecureValueTypeEmail:
		return domain.SecureValueEmail, true
	}
	return 0, false
}

func mapMedia(media tg.MessageMediaClass, file domain.File, viaBotID int64) domain.Media {
	switch m := media.(type) {
	case nil, *tg.MessageMediaEmpty, *tg.MessageMediaWebPage:
		return domain.Media{}
	case *tg.MessageMediaPhoto:
		return domain.Media{Content: mapPhoto(m.Photo, file), TTL: m.TTLSeconds}
	case *tg.MessageMediaDocument:
		document, ok := m.Document.(*tg.Document)
		if !ok {
			return domain.Media{Content: domain.Document{File: file}}
		}
		return domain.Media{Content: mapDocument(document, file), TTL: m.TTLSeconds}
	case *tg.MessageMediaContact:
		return domain.Media{Content: domain.ContactInfo{
			FirstName:   m.FirstName,
			LastName:    m.LastName,
			PhoneNumber: m.PhoneNumber,
		}}
	case *tg.MessageMediaGeo:
		return domain.Media{Content: mapGeoPoint(m.Geo)}
	case *tg.MessageMediaGeoLive:
		return domain.Media{Content: mapGeoPoint(m.Geo), TTL: m.Period}
	case *tg.MessageMediaVenue:
		return domain.Media{Content: domain.Venue{
			Point:   mapGeoPoint(m.Geo),
			Title:   m.Title,
			Address: m.Address,
		}}
	case *tg.MessageMediaGame:
		return domain.Media{Content: domain.Game{
			ID:          m.Game.ID,
			ShortName:   m.Game.ShortName,
			Title:       m.Game.Title,
			Description: m.Game.Description,
			BotID:       viaBotID,
		}}
	case *tg.MessageMediaInvoice:
		return domain.Media{Content: domain.Invoice{
			Title:        m.Title,
			Description:  m.Description,
			Currency:     m.Currency,
			Amount:       m.TotalAmount,
			ReceiptMsgID: m.ReceiptMsgID,
		}}
	}
	return domain.Media{Content: domain.UnsupportedMedia{}}
}

func mapGeoPoint(point tg.GeoPointClass) domain.GeoPoint {
	if p, ok := point.(*tg.GeoPoint); ok {
		return domain.GeoPoint{Latitude: p.Lat, Longitude: p.Long, Valid: true}
	}
	return domain.GeoPoint{}
}

func mapPhoto(photo tg.PhotoClass, file domain.File) domain.Photo {
	p, ok := photo.(*tg.Photo)
	if !ok {
		return domain.Photo{Image: domain.Image{File: file}}
	}
	result := domain.Photo{ID: p.ID, Date: int64(p.Date), Image: domain.Image{File: file}}
	// Размеры берутся у самой большой версии фотографии.
	for _, size := range p.Sizes {
		w, h := photoSize(size)
		if w*h > result.Image.Width*result.Image.Height {
			result.Image.Width, result.Image.Height = w, h
		}
	}
	return result
}

func photoSize(size tg.PhotoSizeClass) (int, int) {
	switch s := size.(type) {
	case *tg.PhotoSize:
		return s.W, s.H
	case *tg.PhotoCachedSize:
		return s.W, s.H
	case *tg.PhotoSizeProgressive:
		return s.W, s.H
	}
	return 0, 0
}

func mapDocument(document *tg.Document, file domain.File) domain.Document {
	result := domain.Document{
		ID:   document.ID,
		File: file,
		Mime: document.MimeType,
	}
	for _, attribute := range document.Attributes {
		switch a := attribute.(type) {
		case *tg.DocumentAttributeFilename:
			result.Name = a.FileName
		case *tg.DocumentAttributeImageSize:
			result.Width, result.Height = a.W, a.H
		case *tg.DocumentAttributeAnimated:
			result.IsAnimated = true
		case *tg.DocumentAttributeSticker:
			result.IsSticker = true
			result.StickerEmoji = a.Alt
		case *tg.DocumentAttributeVideo:
			if a.RoundMessage {
				result.IsVideoMessage = true
			} else {
				result.IsVideoFile = true
			}
			result.Width, result.Height = a.W, a.H
			result.Duration = int(a.Duration)
		case *tg.DocumentAttributeAudio:
			if a.Voice {
				result.IsVoiceMessage = true
			} else {
				result.IsAudioFile = true
			}
			result.Duration = a.Duration
			result.SongPerformer = a.Performer
			result.SongTitle = a.Title
		}
	}
	return result
}
