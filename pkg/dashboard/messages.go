package dashboard

// Messages are the empty-state and field labels for one locale.
type Messages struct {
	NoEvents     string
	NoTodayTasks string
	NoFeeds      string
	NoResources  string
	NoTasks      string

	Upcoming   string
	TodayTasks string
	RecentNote string
	Assignee   string
	Author     string
	Version    string
	Registrant string
}

var (
	KoreanMessages = Messages{
		NoEvents:     "일정이 없습니다.",
		NoTodayTasks: "오늘 할 일이 없습니다.",
		NoFeeds:      "메모가 없습니다.",
		NoResources:  "리소스가 없습니다.",
		NoTasks:      "할 일이 없습니다.",
		Upcoming:     "다가오는 일정",
		TodayTasks:   "오늘 할 일",
		RecentNote:   "최근 메모",
		Assignee:     "담당",
		Author:       "작성자",
		Version:      "버전",
		Registrant:   "등록자",
	}
	EnglishMessages = Messages{
		NoEvents:     "No events.",
		NoTodayTasks: "Nothing due today.",
		NoFeeds:      "No notes.",
		NoResources:  "No resources.",
		NoTasks:      "No tasks.",
		Upcoming:     "Upcoming events",
		TodayTasks:   "Due today",
		RecentNote:   "Recent notes",
		Assignee:     "assignee",
		Author:       "author",
		Version:      "version",
		Registrant:   "added by",
	}
)

// MessagesFor matches dateutil.LocaleByName: anything but "en" is Korean.
func MessagesFor(locale string) Messages {
	if locale == "en" {
		return EnglishMessages
	}
	return KoreanMessages
}
