package components

func noticeClass(message string, isError bool) string {
	switch {
	case message == "":
		return "notice notice--empty"
	case isError:
		return "notice notice--error"
	default:
		return "notice"
	}
}
