package exporter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"telegram-text-export/internal/domain"
)

var (
	// ErrUnknownVariant возвращается, когда действие или вложение сообщения
	// не относится ни к одному известному типу. Это означает расхождение
	// модели данных и писателя, а не ошибку ввода-вывода.
	ErrUnknownVariant = errors.New("unknown message content variant")
	// ErrInvalidFile возвращается для ссылки на файл без пути и без причины пропуска.
	ErrInvalidFile = errors.New("file reference has neither path nor skip reason")
)

// UnsupportedMessageText выводится вместо сообщения с неподдерживаемым вложением.
const UnsupportedMessageText = "Error! This message is not supported " +
	"by this version of Telegram Desktop. " +
	"Please update the application."

const (
	unknownPeerName = "(unknown peer)"
	unknownUserName = "(unknown user)"
)

// MessageSerializer превращает сообщение в блок "ключ: значение".
type MessageSerializer struct {
	kv                  Serializer
	loc                 *time.Location
	internalLinksDomain string
}

// NewMessageSerializer создает MessageSerializer.
func NewMessageSerializer(kv Serializer, loc *time.Location, internalLinksDomain string) MessageSerializer {
	if loc == nil {
		loc = time.Local
	}
	return MessageSerializer{kv: kv, loc: loc, internalLinksDomain: internalLinksDomain}
}

// Serialize выводит сообщение. Промахи в справочнике собеседников не являются
// ошибкой: вместо имени выводится "(unknown user)" или "(unknown peer)".
func (s MessageSerializer) Serialize(message domain.Message, peers map[domain.PeerID]domain.Peer) (string, error) {
	if _, ok := message.Media.Content.(domain.UnsupportedMedia); ok {
		return UnsupportedMessageText, nil
	}

	f := &messageFields{s: s, message: message, peers: peers}
	f.push("ID", strconv.Itoa(message.ID))
	f.push("Date", FormatDateTime(message.Date, s.loc))
	f.push("Edited", FormatDateTime(message.Edited, s.loc))

	if message.Action != nil {
		if err := f.pushAction(message.Action); err != nil {
			return "", err
		}
	} else {
		f.pushFrom("From")
		f.push("Author", message.Signature)
		if !message.ForwardedFromID.IsZero() {
			f.push("Forwarded from", f.peerName(message.ForwardedFromID))
		}
		f.pushReplyTo("Reply to message")
		if message.ViaBotID != 0 {
			f.push("Via", domain.LookupUser(peers, message.ViaBotID).Username)
		}
	}

	if err := f.pushMedia(message.Media); err != nil {
		return "", err
	}

	f.push("Text", message.Text)

	return f.out.String(), nil
}

// messageFields накапливает поля одного сообщения.
type messageFields struct {
	s       MessageSerializer
	message domain.Message
	peers   map[domain.PeerID]domain.Peer
	out     strings.Builder
}

func (f *messageFields) push(key, value string) {
	if value != "" {
		f.out.WriteString(f.s.kv.SerializeKeyValue([]KeyValue{{key, value}}))
	}
}

// pushNested выводит вложенный блок цитатой, даже если в нем одно поле.
func (f *messageFields) pushNested(key string, values []KeyValue) {
	f.out.WriteString(f.s.kv.SerializeNested(key, values))
}

func (f *messageFields) peerName(id domain.PeerID) string {
	if name := domain.LookupPeer(f.peers, id).Name(); name != "" {
		return name
	}
	return unknownPeerName
}

func (f *messageFields) userName(userID int64) string {
	if name := domain.LookupUser(f.peers, userID).Name(); name != "" {
		return name
	}
	return unknownUserName
}

func (f *messageFields) pushFrom(label string) {
	if f.message.FromID != 0 {
		f.push(label, f.userName(f.message.FromID))
	}
}

func (f *messageFields) pushReplyTo(label string) {
	if f.message.ReplyToMsgID != 0 {
		f.push(label, "ID-"+strconv.Itoa(f.message.ReplyToMsgID))
	}
}

func (f *messageFields) pushUserNames(userIDs []int64) {
	names := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		names = append(names, f.userName(id))
	}
	switch len(names) {
	case 0:
	case 1:
		f.push("Member", names[0])
	default:
		f.push("Members", strings.Join(names, ", "))
	}
}

func (f *messageFields) pushActor() {
	f.pushFrom("Actor")
}

func (f *messageFields) pushTTL(label string) {
	if ttl := f.message.Media.TTL; ttl != 0 {
		f.push(label, FormatDuration(ttl))
	}
}

func (f *messageFields) pushPath(file domain.File, label string) error {
	switch file.SkipReason {
	case domain.SkipReasonNone:
		if file.RelativePath == "" {
			return fmt.Errorf("message %d, %s: %w", f.message.ID, label, ErrInvalidFile)
		}
		f.push(label, file.RelativePath)
	case domain.SkipReasonUnavailable:
		f.push(label, "(file unavailable)")
	case domain.SkipReasonFileSize:
		f.push(label, "(file too large)")
	case domain.SkipReasonFileType:
		f.push(label, "(file skipped)")
	default:
		return fmt.Errorf("message %d: skip reason %d: %w", f.message.ID, file.SkipReason, ErrUnknownVariant)
	}
	return nil
}

func (f *messageFields) pushSize(width, height int) {
	if width != 0 && height != 0 {
		f.push("Width", strconv.Itoa(width))
		f.push("Height", strconv.Itoa(height))
	}
}

func (f *messageFields) pushPhoto(image domain.Image) error {
	if err := f.pushPath(image.File, "Photo"); err != nil {
		return err
	}
	f.pushSize(image.Width, image.Height)
	return nil
}

func (f *messageFields) pushAction(action domain.Action) error {
	switch a := action.(type) {
	case domain.ActionChatCreate:
		f.pushActor()
		f.push("Action", "Create group")
		f.push("Title", a.Title)
		f.pushUserNames(a.UserIDs)
	case domain.ActionChatEditTitle:
		f.pushActor()
		f.push("Action", "Edit group title")
		f.push("New title", a.Title)
	case domain.ActionChatEditPhoto:
		f.pushActor()
		f.push("Action", "Edit group photo")
		return f.pushPhoto(a.Photo.Image)
	case domain.ActionChatDeletePhoto:
		f.pushActor()
		f.push("Action", "Delete group photo")
	case domain.ActionChatAddUser:
		f.pushActor()
		f.push("Action", "Invite members")
		f.pushUserNames(a.UserIDs)
	case domain.ActionChatDeleteUser:
		f.pushActor()
		f.push("Action", "Remove members")
		f.push("Member", f.userName(a.UserID))
	case domain.ActionChatJoinedByLink:
		f.pushActor()
		f.push("Action", "Join group by link")
		f.push("Inviter", f.userName(a.InviterID))
	case domain.ActionChannelCreate:
		f.pushActor()
		f.push("Action", "Create channel")
		f.push("Title", a.Title)
	case domain.ActionChatMigrateTo:
		f.pushActor()
		f.push("Action", "Migrate this group to supergroup")
	case domain.ActionChannelMigrateFrom:
		f.pushActor()
		f.push("Action", "Migrate this supergroup from group")
		f.push("Title", a.Title)
	case domain.ActionPinMessage:
		f.pushActor()
		f.push("Action", "Pin message")
		f.pushReplyTo("Message")
	case domain.ActionHistoryClear:
		f.pushActor()
		f.push("Action", "Clear history")
	case domain.ActionGameScore:
		f.pushActor()
		f.push("Action", "Score in a game")
		f.pushReplyTo("Game message")
		f.push("Score", strconv.Itoa(a.Score))
	case domain.ActionPaymentSent:
		f.push("Action", "Send payment")
		f.push("Amount", FormatMoneyAmount(a.Amount, a.Currency))
		f.pushReplyTo("Invoice message")
	case domain.ActionPhoneCall:
		f.pushActor()
		f.push("Action", "Phone call")
		f.push("Duration", FormatDuration(a.Duration))
		f.push("Discard reason", discardReasonString(a.DiscardReason))
	case domain.ActionScreenshotTaken:
		f.pushActor()
		f.push("Action", "Take screenshot")
	case domain.ActionCustomAction:
		f.pushActor()
		f.push("Information", a.Message)
	case domain.ActionBotAllowed:
		f.push("Action", "Allow sending messages")
		f.push("Reason", `Login on "`+a.Domain+`"`)
	case domain.ActionSecureValuesSent:
		f.push("Action", "Send Telegram Passport values")
		list := make([]string, 0, len(a.Types))
		for _, t := range a.Types {
			list = append(list, secureValueTypeString(t))
		}
		switch len(list) {
		case 0:
		case 1:
			f.push("Value", list[0])
		default:
			f.push("Values", strings.Join(list, ", "))
		}
	default:
		return fmt.Errorf("message %d: action %T: %w", f.message.ID, action, ErrUnknownVariant)
	}
	return nil
}

func discardReasonString(reason domain.DiscardReason) string {
	switch reason {
	case domain.DiscardReasonBusy:
		return "Busy"
	case domain.DiscardReasonDisconnect:
		return "Disconnect"
	case domain.DiscardReasonHangup:
		return "Hangup"
	case domain.DiscardReasonMissed:
		return "Missed"
	}
	return ""
}

func secureValueTypeString(t domain.SecureValueType) string {
	switch t {
	case domain.SecureValuePersonalDetails:
		return "Personal details"
	case domain.SecureValuePassport:
		return "Passport"
	case domain.SecureValueDriverLicense:
		return "Driver license"
	case domain.SecureValueIdentityCard:
		return "Identity card"
	case domain.SecureValueInternalPassport:
		return "Internal passport"
	case domain.SecureValueAddress:
		return "Address information"
	case domain.SecureValueUtilityBill:
		return "Utility bill"
	case domain.SecureValueBankStatement:
		return "Bank statement"
	case domain.SecureValueRentalAgreement:
		return "Rental agreement"
	case domain.SecureValuePassportRegistration:
		return "Passport registration"
	case domain.SecureValueTemporaryRegistration:
		return "Temporary registration"
	case domain.SecureValuePhone:
		return "Phone number"
	case domain.SecureValueEmail:
		return "Email"
	}
	return ""
}

func (f *messageFields) pushMedia(media domain.Media) error {
	switch m := media.Content.(type) {
	case nil:
	case domain.Photo:
		if err := f.pushPhoto(m.Image); err != nil {
			return err
		}
		f.pushTTL("Self destruct period")
	case domain.Document:
		return f.pushDocument(m)
	case domain.ContactInfo:
		f.pushNested("Contact information", []KeyValue{
			{"First name", m.FirstName},
			{"Last name", m.LastName},
			{"Phone number", FormatPhoneNumber(m.PhoneNumber)},
		})
	case domain.GeoPoint:
		if m.Valid {
			f.pushPoint(m)
		} else {
			f.push("Location", "(empty value)")
		}
		f.pushTTL("Live location period")
	case domain.Venue:
		f.push("Place name", m.Title)
		f.push("Address", m.Address)
		if m.Point.Valid {
			f.pushPoint(m.Point)
		}
	case domain.Game:
		f.push("Game", m.Title)
		f.push("Description", m.Description)
		if m.BotID != 0 && m.ShortName != "" {
			bot := domain.LookupUser(f.peers, m.BotID)
			if bot.IsBot && bot.Username != "" {
				f.push("Link", f.s.internalLinksDomain+bot.Username+"?game="+m.ShortName)
			}
		}
	case domain.Invoice:
		receipt := ""
		if m.ReceiptMsgID != 0 {
			receipt = "ID-" + strconv.Itoa(m.ReceiptMsgID)
		}
		f.pushNested("Invoice", []KeyValue{
			{"Title", m.Title},
			{"Description", m.Description},
			{"Amount", FormatMoneyAmount(m.Amount, m.Currency)},
			{"Receipt message", receipt},
		})
	default:
		return fmt.Errorf("message %d: media %T: %w", f.message.ID, media.Content, ErrUnknownVariant)
	}
	return nil
}

func (f *messageFields) pushDocument(d domain.Document) error {
	var label string
	switch {
	case d.IsSticker:
		label = "Sticker"
	case d.IsVideoMessage:
		label = "Video message"
	case d.IsVoiceMessage:
		label = "Voice message"
	case d.IsAnimated:
		label = "Animation"
	case d.IsVideoFile:
		label = "Video file"
	case d.IsAudioFile:
		label = "Audio file"
	default:
		label = "File"
	}
	if err := f.pushPath(d.File, label); err != nil {
		return err
	}

	switch label {
	case "Sticker":
		f.push("Emoji", d.StickerEmoji)
	case "Audio file":
		f.push("Performer", d.SongPerformer)
		f.push("Title", d.SongTitle)
	}
	if !d.IsSticker {
		f.push("Mime type", d.Mime)
	}
	f.push("Duration", FormatDuration(d.Duration))
	f.pushSize(d.Width, d.Height)
	f.pushTTL("Self destruct period")
	return nil
}

func (f *messageFields) pushPoint(point domain.GeoPoint) {
	f.pushNested("Location", []KeyValue{
		{"Latitude", FormatFloat(point.Latitude)},
		{"Longitude", FormatFloat(point.Longitude)},
	})
}
