package domain

import (
	"strconv"
	"strings"
)

// PeerKind различает пользователей и чаты.
type PeerKind int

const (
	PeerKindUser PeerKind = iota + 1
	PeerKindChat
)

// PeerID - единый идентификатор собеседника. Нулевое значение означает
// отсутствие ссылки.
type PeerID struct {
	Kind PeerKind `json:"kind"`
	ID   int64    `json:"id"`
}

// UserPeerID строит идентификатор пользователя.
func UserPeerID(userID int64) PeerID {
	return PeerID{Kind: PeerKindUser, ID: userID}
}

// ChatPeerID строит идентификатор чата или канала.
func ChatPeerID(chatID int64) PeerID {
	return PeerID{Kind: PeerKindChat, ID: chatID}
}

// IsZero сообщает, что идентификатор пуст.
func (p PeerID) IsZero() bool {
	return p.ID == 0
}

func (p PeerID) String() string {
	switch p.Kind {
	case PeerKindUser:
		return "user" + strconv.FormatInt(p.ID, 10)
	case PeerKindChat:
		return "chat" + strconv.FormatInt(p.ID, 10)
	default:
		return "peer" + strconv.FormatInt(p.ID, 10)
	}
}

// Peer - пользователь или чат. Реализуется только типами User и Chat.
type Peer interface {
	PeerID() PeerID
	Name() string
	isPeer()
}

// User - пользователь Telegram.
type User struct {
	ID       int64       `json:"id"`
	Info     ContactInfo `json:"info"`
	Username string      `json:"username,omitempty"`
	IsBot    bool        `json:"is_bot,omitempty"`
}

// PeerID реализует интерфейс Peer.
func (u User) PeerID() PeerID { return UserPeerID(u.ID) }

// Name возвращает отображаемое имя пользователя или пустую строку.
func (u User) Name() string {
	return strings.TrimSpace(u.Info.FirstName + " " + u.Info.LastName)
}

func (User) isPeer() {}

// Chat - группа, супергруппа или канал.
type Chat struct {
	ID           int64  `json:"id"`
	Title        string `json:"title,omitempty"`
	Username     string `json:"username,omitempty"`
	IsBroadcast  bool   `json:"is_broadcast,omitempty"`
	IsSupergroup bool   `json:"is_supergroup,omitempty"`
}

// PeerID реализует интерфейс Peer.
func (c Chat) PeerID() PeerID { return ChatPeerID(c.ID) }

// Name возвращает название чата.
func (c Chat) Name() string { return c.Title }

func (Chat) isPeer() {}

// emptyUser возвращается при промахе поиска. Так как это значение, а не
// указатель, вызывающий код не может его изменить.
var emptyUser = User{}

// LookupPeer ищет собеседника по идентификатору. При промахе возвращается
// пустой пользователь, а не ошибка: частичный экспорт может ссылаться на
// собеседников, которые не были выгружены.
func LookupPeer(peers map[PeerID]Peer, id PeerID) Peer {
	if peer, ok := peers[id]; ok && peer != nil {
		return peer
	}
	return emptyUser
}

// LookupUser ищет пользователя по его ID.
func LookupUser(peers map[PeerID]Peer, userID int64) User {
	if user, ok := LookupPeer(peers, UserPeerID(userID)).(User); ok {
		return user
	}
	return emptyUser
}
