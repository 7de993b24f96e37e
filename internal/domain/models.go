package domain

// Settings содержит параметры одной сессии экспорта.
type Settings struct {
	// Path - корневой каталог экспорта, обязательно с завершающим разделителем.
	Path string
	// InternalLinksDomain - префикс для внутренних ссылок (например, "https://t.me/").
	InternalLinksDomain string
}

// SkipReason объясняет, почему файл, на который ссылается запись, не был выгружен.
type SkipReason int

const (
	SkipReasonNone SkipReason = iota
	SkipReasonUnavailable
	SkipReasonFileSize
	SkipReasonFileType
)

// File - ссылка на выгруженный файл: либо непустой относительный путь,
// либо причина пропуска.
type File struct {
	RelativePath string     `json:"relative_path,omitempty"`
	SkipReason   SkipReason `json:"skip_reason,omitempty"`
}

// Valid сообщает, соблюдается ли инвариант ссылки на файл.
func (f File) Valid() bool {
	return f.RelativePath != "" || f.SkipReason != SkipReasonNone
}

// Image - изображение с размерами.
type Image struct {
	Width  int  `json:"width,omitempty"`
	Height int  `json:"height,omitempty"`
	File   File `json:"file"`
}

// ContactInfo содержит контактные данные пользователя.
type ContactInfo struct {
	FirstName   string `json:"first_name,omitempty"`
	LastName    string `json:"last_name,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Date        int64  `json:"date,omitempty"`
}

// PersonalInfo - информация о владельце аккаунта.
type PersonalInfo struct {
	User User   `json:"user"`
	Bio  string `json:"bio,omitempty"`
}

// UserpicsInfo сообщает, сколько фотографий профиля будет выгружено.
type UserpicsInfo struct {
	Count int `json:"count"`
}

// Photo - фотография профиля или чата.
type Photo struct {
	ID    int64 `json:"id,omitempty"`
	Date  int64 `json:"date,omitempty"`
	Image Image `json:"image"`
}

// UserpicsSlice - очередная порция фотографий профиля.
type UserpicsSlice struct {
	List []Photo `json:"list"`
}

// ContactsList - список контактов аккаунта.
type ContactsList struct {
	List []ContactInfo `json:"list"`
}

// Session - одна авторизованная сессия аккаунта.
type Session struct {
	Platform           string `json:"platform,omitempty"`
	DeviceModel        string `json:"device_model,omitempty"`
	SystemVersion      string `json:"system_version,omitempty"`
	ApplicationName    string `json:"application_name,omitempty"`
	ApplicationVersion string `json:"application_version,omitempty"`
	Created            int64  `json:"created,omitempty"`
	LastActive         int64  `json:"last_active,omitempty"`
	IP                 string `json:"ip,omitempty"`
	Country            string `json:"country,omitempty"`
	Region             string `json:"region,omitempty"`
}

// SessionsList - список активных сессий.
type SessionsList struct {
	List []Session `json:"list"`
}

// DialogType - тип экспортируемого диалога.
type DialogType int

const (
	DialogTypeUnknown DialogType = iota
	DialogTypePersonal
	DialogTypeBot
	DialogTypePrivateGroup
	DialogTypePublicGroup
	DialogTypePrivateChannel
	DialogTypePublicChannel
)

// DialogInfo описывает один диалог.
type DialogInfo struct {
	Type   DialogType `json:"type"`
	Name   string     `json:"name,omitempty"`
	PeerID PeerID     `json:"peer_id"`
	// RelativePath - каталог диалога относительно корня экспорта,
	// с завершающим "/". Пустое значение означает, что путь назначит писатель.
	RelativePath string `json:"relative_path,omitempty"`
	// OnlyMyMessages выставляется, если выгружались только исходящие сообщения.
	OnlyMyMessages bool `json:"only_my_messages,omitempty"`
}

// DialogsInfo - упорядоченный список диалогов одной группы.
type DialogsInfo struct {
	List []DialogInfo `json:"list"`
}

// MessagesSlice - порция сообщений одного диалога вместе со справочником
// упомянутых в ней собеседников.
type MessagesSlice struct {
	List  []Message
	Peers map[PeerID]Peer
}

// ExportSummary - итог одной сессии экспорта.
type ExportSummary struct {
	ExportID     string `json:"export_id"`
	MainFilePath string `json:"main_file_path"`
	Userpics     int    `json:"userpics"`
	Contacts     int    `json:"contacts"`
	Sessions     int    `json:"sessions"`
	Dialogs      int    `json:"dialogs"`
	LeftChannels int    `json:"left_channels"`
	Messages     int    `json:"messages"`
	Skipped      int    `json:"skipped"`
}
