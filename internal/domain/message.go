package domain

// Message - одно сообщение диалога.
type Message struct {
	ID              int
	Date            int64
	Edited          int64
	FromID          int64
	ReplyToMsgID    int
	ForwardedFromID PeerID
	ViaBotID        int64
	Signature       string
	Text            string
	// Action равно nil у обычных сообщений.
	Action Action
	Media  Media
}

// Media - вложение сообщения. Content равно nil, если вложения нет.
type Media struct {
	Content MediaContent
	// TTL - период самоуничтожения в секундах.
	TTL int
}

// Action - служебное событие в сообщении. Набор реализаций закрыт:
// добавить новое действие можно только в этом пакете.
type Action interface {
	isAction()
}

type ActionChatCreate struct {
	Title   string
	UserIDs []int64
}

type ActionChatEditTitle struct {
	Title string
}

type ActionChatEditPhoto struct {
	Photo Photo
}

type ActionChatDeletePhoto struct{}

type ActionChatAddUser struct {
	UserIDs []int64
}

type ActionChatDeleteUser struct {
	UserID int64
}

type ActionChatJoinedByLink struct {
	InviterID int64
}

type ActionChannelCreate struct {
	Title string
}

type ActionChatMigrateTo struct {
	ChannelID int64
}

type ActionChannelMigrateFrom struct {
	Title  string
	ChatID int64
}

type ActionPinMessage struct{}

type ActionHistoryClear struct{}

type ActionGameScore struct {
	GameID int64
	Score  int
}

type ActionPaymentSent struct {
	Currency string
	// Amount задан в минимальных единицах валюты.
	Amount int64
}

// DiscardReason - причина завершения звонка.
type DiscardReason int

const (
	DiscardReasonUnknown DiscardReason = iota
	DiscardReasonMissed
	DiscardReasonDisconnect
	DiscardReasonHangup
	DiscardReasonBusy
)

type ActionPhoneCall struct {
	DiscardReason DiscardReason
	// Duration в секундах, 0 - неизвестна.
	Duration int
}

type ActionScreenshotTaken struct{}

type ActionCustomAction struct {
	Message string
}

type ActionBotAllowed struct {
	Domain string
}

// SecureValueType - тип документа Telegram Passport.
type SecureValueType int

const (
	SecureValuePersonalDetails SecureValueType = iota
	SecureValuePassport
	SecureValueDriverLicense
	SecureValueIdentityCard
	SecureValueInternalPassport
	SecureValueAddress
	SecureValueUtilityBill
	SecureValueBankStatement
	SecureValueRentalAgreement
	SecureValuePassportRegistration
	SecureValueTemporaryRegistration
	SecureValuePhone
	SecureValueEmail
)

type ActionSecureValuesSent struct {
	Types []SecureValueType
}

func (ActionChatCreate) isAction()         {}
func (ActionChatEditTitle) isAction()      {}
func (ActionChatEditPhoto) isAction()      {}
func (ActionChatDeletePhoto) isAction()    {}
func (ActionChatAddUser) isAction()        {}
func (ActionChatDeleteUser) isAction()     {}
func (ActionChatJoinedByLink) isAction()   {}
func (ActionChannelCreate) isAction()      {}
func (ActionChatMigrateTo) isAction()      {}
func (ActionChannelMigrateFrom) isAction() {}
func (ActionPinMessage) isAction()         {}
func (ActionHistoryClear) isAction()       {}
func (ActionGameScore) isAction()          {}
func (ActionPaymentSent) isAction()        {}
func (ActionPhoneCall) isAction()          {}
func (ActionScreenshotTaken) isAction()    {}
func (ActionCustomAction) isAction()       {}
func (ActionBotAllowed) isAction()         {}
func (ActionSecureValuesSent) isAction()   {}

// MediaContent - содержимое вложения. Набор реализаций закрыт.
type MediaContent interface {
	isMediaContent()
}

// Document - любой файл: стикер, голосовое, видео, аудио и т.д.
type Document struct {
	ID            int64
	File          File
	Name          string
	Mime          string
	StickerEmoji  string
	SongPerformer string
	SongTitle     string
	Width         int
	Height        int
	Duration      int

	IsSticker      bool
	IsVideoMessage bool
	IsVoiceMessage bool
	IsAnimated     bool
	IsVideoFile    bool
	IsAudioFile    bool
}

// GeoPoint - координаты. Valid равно false для пустой точки.
type GeoPoint struct {
	Latitude  float64
	Longitude float64
	Valid     bool
}

type Venue struct {
	Point   GeoPoint
	Title   string
	Address string
}

type Game struct {
	ID          int64
	ShortName   string
	Title       string
	Description string
	BotID       int64
}

type Invoice struct {
	Title       string
	Description string
	Currency    string
	Amount      int64
	// ReceiptMsgID равен 0, если квитанции нет.
	ReceiptMsgID int
}

// UnsupportedMedia - вложение, которое текущая версия не умеет представить.
type UnsupportedMedia struct{}

func (Photo) isMediaContent()            {}
func (Document) isMediaContent()         {}
func (ContactInfo) isMediaContent()      {}
func (GeoPoint) isMediaContent()         {}
func (Venue) isMediaContent()            {}
func (Game) isMediaContent()             {}
func (Invoice) isMediaContent()          {}
func (UnsupportedMedia) isMediaContent() {}
