package web

import "github.com/sudo-init-do/khadamni/internal/nav"

var screenPaths = map[nav.Screen]string{
	nav.Login:      "/login",
	nav.Demo:       "/main",
	nav.Main:       "/main",
	nav.Browse:     "/browse",
	nav.CreatePost: "/posts/new",
	nav.Chat:       "/chat",
	nav.Profile:    "/profile",
	nav.Register:   "/register",
}

// screenTitles label the screens in page titles and the bottom navigation.
var screenTitles = map[nav.Screen]string{
	nav.Login:      "تسجيل الدخول",
	nav.Demo:       "الدخول كضيف",
	nav.Main:       "الرئيسية",
	nav.Browse:     "تصفح",
	nav.CreatePost: "إنشاء منشور",
	nav.Chat:       "الرسائل",
	nav.Profile:    "الملف الشخصي",
	nav.Register:   "إنشاء حساب",
}

func screenPath(s nav.Screen) string {
	if p, ok := screenPaths[s]; ok {
		return p
	}
	return "/"
}
