package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserName(t *testing.T) {
	tests := []struct {
		name string
		user User
		want string
	}{
		{"имя и фамилия", User{Info: ContactInfo{FirstName: "John", LastName: "Doe"}}, "John Doe"},
		{"только имя", User{Info: ContactInfo{FirstName: "John"}}, "John"},
		{"только фамилия", User{Info: ContactInfo{LastName: "Doe"}}, "Doe"},
		{"пустой пользователь", User{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.Name())
		})
	}
}

func TestLookupPeer(t *testing.T) {
	peers := map[PeerID]Peer{
		UserPeerID(1): User{ID: 1, Info: ContactInfo{FirstName: "Alice"}, Username: "alice"},
		ChatPeerID(2): Chat{ID: 2, Title: "Team"},
	}

	t.Run("находит пользователя", func(t *testing.T) {
		peer := LookupPeer(peers, UserPeerID(1))
		assert.Equal(t, "Alice", peer.Name())
		assert.Equal(t, UserPeerID(1), peer.PeerID())
	})

	t.Run("находит чат", func(t *testing.T) {
		assert.Equal(t, "Team", LookupPeer(peers, ChatPeerID(2)).Name())
		assert.Equal(t, Chat{ID: 2, Title: "Team"}, LookupPeer(peers, ChatPeerID(2)))
	})

	t.Run("промах возвращает пустого пользователя", func(t *testing.T) {
		peer := LookupPeer(peers, UserPeerID(42))
		assert.Equal(t, User{}, peer)
		assert.Empty(t, peer.Name())
	})

	t.Run("nil справочник не приводит к панике", func(t *testing.T) {
		assert.Equal(t, User{}, LookupUser(nil, 1))
		assert.Equal(t, User{}, LookupPeer(nil, ChatPeerID(1)))
	})

	t.Run("LookupUser не путает чат с пользователем", func(t *testing.T) {
		peers := map[PeerID]Peer{UserPeerID(2): Chat{ID: 2, Title: "Wrong"}}
		assert.Equal(t, User{}, LookupUser(peers, 2))
	})

	t.Run("изменение результата не портит сторожевое значение", func(t *testing.T) {
		user := LookupUser(peers, 100)
		user.Username = "mutated"
		assert.Empty(t, LookupUser(peers, 100).Username)
	})
}

func TestPeerID(t *testing.T) {
	assert.True(t, PeerID{}.IsZero())
	assert.False(t, UserPeerID(5).IsZero())
	assert.Equal(t, "user5", UserPeerID(5).String())
	assert.Equal(t, "chat7", ChatPeerID(7).String())
	assert.NotEqual(t, UserPeerID(7), ChatPeerID(7))
}

func TestFileValid(t *testing.T) {
	assert.False(t, File{}.Valid())
	assert.True(t, File{RelativePath: "photos/1.jpg"}.Valid())
	assert.True(t, File{SkipReason: SkipReasonFileSize}.Valid())
}
