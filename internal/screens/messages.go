package screens

// User-facing messages. Server-reported login failures are shown verbatim
// instead of MsgLoginFailed.
const (
	MsgLoginRequired    = "يرجى إدخال البريد الإلكتروني وكلمة المرور"
	MsgLoginFailed      = "فشل تسجيل الدخول"
	MsgConnectionError  = "حدث خطأ في الاتصال"
	MsgRequiredFields   = "يرجى ملء جميع الحقول المطلوبة"
	MsgLoginToPost      = "يرجى تسجيل الدخول لنشر منشور"
	MsgPostCreated      = "تم إنشاء المنشور بنجاح"
	MsgPostFailed       = "حدث خطأ أثناء إنشاء المنشور"
	MsgUnderDevelopment = "قيد التطوير"
	MsgGuestProfile     = "تعديل الملف الشخصي قيد التطوير"
)
