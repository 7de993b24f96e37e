package parser

import (
	"encoding/base64"
	"io"
	"strings"
	"testing"

	"github.com/gotd/td/bin"
	"github.com/gotd/td/tg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"telegram-text-export/internal/domain"
)

func readAllRecords(t *testing.T, input string) ([]domain.Record, error) {
	t.Helper()
	reader := NewJsonParser().NewReader(strings.NewReader(input))
	var records []domain.Record
	for {
		record, err := reader.Next()
		if err == io.EOF {
			return records, nil
		}
		if err != nil {
			return records, err
		}
		records = append(records, record)
	}
}

func TestJsonParser(t *testing.T) {
	t.Run("NewJsonParser создает корректный экземпляр", func(t *testing.T) {
		assert.NotNil(t, NewJsonParser())
	})

	t.Run("Разбор служебных записей", func(t *testing.T) {
		input := `{"kind":"personal","data":{"user":{"id":1,"info":{"first_name":"Ann"},"username":"ann"},"bio":"hi"}}

{"kind":"userpics","data":{"count":1}}
{"kind":"userpic","data":{"id":3,"date":100,"image":{"file":{"relative_path":"profile_pictures/3.jpg"}}}}
{"kind":"contacts","data":{"list":[{"first_name":"Bob","phone_number":"7999"}]}}
{"kind":"sessions","data":{"list":[{"platform":"iOS","ip":"1.2.3.4"}]}}
`
		records, err := readAllRecords(t, input)
		require.NoError(t, err)
		require.Len(t, records, 5)

		assert.Equal(t, domain.RecordPersonal, records[0].Kind)
		assert.Equal(t, "Ann", records[0].Personal.User.Info.FirstName)
		assert.Equal(t, "hi", records[0].Personal.Bio)

		assert.Equal(t, 1, records[1].Userpics.Count)
		assert.Equal(t, "profile_pictures/3.jpg", records[2].Userpic.Image.File.RelativePath)
		assert.Equal(t, "Bob", records[3].Contacts.List[0].FirstName)
		assert.Equal(t, "1.2.3.4", records[4].Sessions.List[0].IP)
	})

	t.Run("Разбор диалогов и собеседников", func(t *testing.T) {
		input := `{"kind":"dialogs","data":{"list":[{"type":"personal","name":"Bob","peer":"user2"},{"type":"public_channel","peer":"chat10","relative_path":"chats/news/"}]}}
{"kind":"dialog","data":{"type":"personal","name":"Bob","peer":"user2","only_my_messages":true}}
{"kind":"peer","data":{"user":{"id":2,"info":{"first_name":"Bob"},"is_bot":true}}}
{"kind":"peer","data":{"chat":{"id":10,"title":"News","is_broadcast":true}}}
`
		records, err := readAllRecords(t, input)
		require.NoError(t, err)
		require.Len(t, records, 4)

		dialogs := records[0].Dialogs.List
		require.Len(t, dialogs, 2)
		assert.Equal(t, domain.DialogTypePersonal, dialogs[0].Type)
		assert.Equal(t, domain.UserPeerID(2), dialogs[0].PeerID)
		assert.Equal(t, domain.DialogTypePublicChannel, dialogs[1].Type)
		assert.Equal(t, "chats/news/", dialogs[1].RelativePath)

		assert.True(t, records[1].Dialog.OnlyMyMessages)
		assert.Equal(t, domain.User{ID: 2, Info: domain.ContactInfo{FirstName: "Bob"}, IsBot: true}, records[2].Peer)
		assert.Equal(t, domain.Chat{ID: 10, Title: "News", IsBroadcast: true}, records[3].Peer)
	})

	t.Run("Разбор сообщения с действием", func(t *testing.T) {
		input := `{"kind":"message","data":{"id":5,"date":100,"from_id":1,"action":{"type":"phone_call","discard_reason":"busy","duration":30}}}`
		records, err := readAllRecords(t, input)
		require.NoError(t, err)
		require.Len(t, records, 1)

		message := records[0].Message
		assert.Equal(t, 5, message.ID)
		assert.Equal(t, domain.ActionPhoneCall{DiscardReason: domain.DiscardReasonBusy, Duration: 30}, message.Action)
	})

	t.Run("Разбор сообщения с вложением", func(t *testing.T) {
		input := `{"kind":"message","data":{"id":6,"forwarded_from":"chat10","text":"look","media":{"type":"document","document_type":"voice_message","duration":4,"mime":"audio/ogg","ttl":10,"file":{"skip_reason":2}}}}`
		records, err := readAllRecords(t, input)
		require.NoError(t, err)
		require.Len(t, records, 1)

		message := records[0].Message
		assert.Equal(t, domain.ChatPeerID(10), message.ForwardedFromID)
		assert.Equal(t, 10, message.Media.TTL)
		assert.Equal(t, domain.Document{
			File:           domain.File{SkipReason: domain.SkipReasonFileSize},
			Mime:           "audio/ogg",
			Duration:       4,
			IsVoiceMessage: true,
		}, message.Media.Content)
	})

	t.Run("Разбор вложений разных типов", func(t *testing.T) {
		input := `{"kind":"message","data":{"id":1,"media":{"type":"venue","title":"Cafe","address":"Main st.","point":{"lat":1.5,"long":2.5}}}}
{"kind":"message","data":{"id":2,"media":{"type":"invoice","title":"Pizza","currency":"USD","amount":1500,"receipt_msg_id":3}}}
{"kind":"message","data":{"id":3,"media":{"type":"unsupported"}}}
{"kind":"message","data":{"id":4,"media":{"type":"geo"}}}
`
		records, err := readAllRecords(t, input)
		require.NoError(t, err)
		require.Len(t, records, 4)

		assert.Equal(t, domain.Venue{
			Point:   domain.GeoPoint{Latitude: 1.5, Longitude: 2.5, Valid: true},
			Title:   "Cafe",
			Address: "Main st.",
		}, records[0].Message.Media.Content)
		assert.Equal(t, domain.Invoice{Title: "Pizza", Currency: "USD", Amount: 1500, ReceiptMsgID: 3}, records[1].Message.Media.Content)
		assert.Equal(t, domain.UnsupportedMedia{}, records[2].Message.Media.Content)
		assert.Equal(t, domain.GeoPoint{}, records[3].Message.Media.Content)
	})

	t.Run("Разбор сырых TL-объектов", func(t *testing.T) {
		var message bin.Buffer
		require.NoError(t, (&tg.Message{ID: 9, Date: 100, PeerID: &tg.PeerUser{UserID: 2}, Message: "from takeout"}).Encode(&message))
		var user bin.Buffer
		require.NoError(t, (&tg.User{ID: 2, FirstName: "Bob"}).Encode(&user))
		var empty bin.Buffer
		require.NoError(t, (&tg.MessageEmpty{ID: 10}).Encode(&empty))

		input := `{"kind":"tl_user","data":{"payload":"` + base64.StdEncoding.EncodeToString(user.Raw()) + `"}}
{"kind":"tl_message","data":{"payload":"` + base64.StdEncoding.EncodeToString(empty.Raw()) + `"}}
{"kind":"tl_message","data":{"payload":"` + base64.StdEncoding.EncodeToString(message.Raw()) + `"}}
`
		reader := NewJsonParser().NewReader(strings.NewReader(input))

		record, err := reader.Next()
		require.NoError(t, err)
		assert.Equal(t, domain.RecordPeer, record.Kind)
		assert.Equal(t, "Bob", record.Peer.Name())

		record, err = reader.Next()
		require.NoError(t, err)
		assert.Equal(t, domain.RecordMessage, record.Kind)
		assert.Equal(t, "from takeout", record.Message.Text)
		assert.Equal(t, int64(2), record.Message.FromID)

		_, err = reader.Next()
		assert.Equal(t, io.EOF, err)

		skipper, ok := reader.(*RecordReader)
		require.True(t, ok)
		assert.Equal(t, 1, skipper.Skipped())
	})

	t.Run("Разбор некорректного JSON возвращает ошибку", func(t *testing.T) {
		_, err := readAllRecords(t, "{\"kind\":\"personal\",\"data\":{}}\n{broken")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("Неизвестный вид записи", func(t *testing.T) {
		_, err := readAllRecords(t, `{"kind":"stories","data":{}}`)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})

	t.Run("Неизвестный тип действия или вложения", func(t *testing.T) {
		for _, input := range []string{
			`{"kind":"message","data":{"id":1,"action":{"type":"topic_create"}}}`,
			`{"kind":"message","data":{"id":1,"media":{"type":"poll"}}}`,
			`{"kind":"message","data":{"id":1,"media":{"type":"document","document_type":"gif"}}}`,
			`{"kind":"dialog","data":{"type":"secret"}}`,
			`{"kind":"dialog","data":{"type":"bot","peer":"bot5"}}`,
		} {
			_, err := readAllRecords(t, input)
			assert.ErrorIs(t, err, ErrUnknownType, input)
		}
	})

	t.Run("Собеседник должен быть пользователем или чатом", func(t *testing.T) {
		_, err := readAllRecords(t, `{"kind":"peer","data":{}}`)
		assert.Error(t, err)
	})

	t.Run("Слишком длинная строка", func(t *testing.T) {
		reader := NewJsonParser(WithMaxLineSize(16)).NewReader(strings.NewReader(`{"kind":"contacts","data":{"list":[]}}`))
		_, err := reader.Next()
		assert.Error(t, err)
		assert.NotEqual(t, io.EOF, err)
	})
}
