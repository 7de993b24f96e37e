package domain

// RecordKind - тип записи в дампе истории.
type RecordKind string

const (
	RecordPersonal     RecordKind = "personal"
	RecordUserpics     RecordKind = "userpics"
	RecordUserpic      RecordKind = "userpic"
	RecordContacts     RecordKind = "contacts"
	RecordSessions     RecordKind = "sessions"
	RecordDialogs      RecordKind = "dialogs"
	RecordDialog       RecordKind = "dialog"
	RecordLeftChannels RecordKind = "left_channels"
	RecordLeftChannel  RecordKind = "left_channel"
	RecordPeer         RecordKind = "peer"
	RecordMessage      RecordKind = "message"
)

// Record - одна запись дампа. Заполнено только поле, соответствующее Kind.
type Record struct {
	Kind RecordKind

	Personal *PersonalInfo
	Userpics *UserpicsInfo
	Userpic  *Photo
	Contacts *ContactsList
	Sessions *SessionsList
	Dialogs  *DialogsInfo
	Dialog   *DialogInfo
	Peer     Peer
	Message  *Message
}
