package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:          "成功",
	ErrUnknown:          "未知错误",
	ErrBind:             "请求参数绑定错误",
	ErrValidation:       "请求参数验证错误",
	ErrTokenInvalid:     "无效的认证令牌",
	ErrPermissionDenied: "角色权限不足",
	ErrTooManyRequests:  "请求频率过高",

	// 账户相关错误码
	ErrAccountNotFound:       "账户不存在",
	ErrAccountAlreadyExist:   "该邮箱已注册",
	ErrFlatAlreadyRegistered: "该房号已被其他住户注册",
	ErrPasswordIncorrect:     "邮箱或密码错误",
	ErrAccountNotActivated:   "账户尚未完成验证码激活",
	ErrAccountNotApproved:    "账户正在等待管理员审批",
	ErrAccountRejected:       "账户注册已被拒绝",
	ErrRemarkRequired:        "必须填写备注说明",

	// OTP相关错误码
	ErrOtpExpired:  "验证码已过期，请重新获取",
	ErrOtpInvalid:  "验证码不正确",
	ErrOtpCooldown: "验证码发送过于频繁，请稍后再试",

	// 登记实体相关错误码
	ErrStaffNotFound:       "家政人员不存在",
	ErrStaffAlreadyExist:   "该家政人员已登记",
	ErrVehicleNotFound:     "车辆不存在",
	ErrVehicleAlreadyExist: "该车牌号已登记",
	ErrVehicleNoInvalid:    "车牌号格式不正确",
	ErrVisitorNotFound:     "访客记录不存在",
	ErrDeliveryNotFound:    "快递请求不存在",
	ErrDeliveryPending:     "已存在待处理的快递请求",

	// 门禁核验相关错误码
	ErrSubjectBlocked:  "该人员已被拉黑，禁止进入",
	ErrVehicleDenied:   "该车辆已被禁行",
	ErrAlreadyInside:   "该主体已在园区内",
	ErrNotInside:       "该主体不在园区内",
	ErrPassAlreadyUsed: "通行证已被使用",
	ErrPassExpired:     "通行证已过期",
	ErrPassRevoked:     "通行证已被撤销",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 紧急警报相关错误码
	ErrAlertNotFound:         "警报不存在",
	ErrAlertTransition:       "警报状态只能向前流转",
	ErrAlertAssigneeRequired: "进入处理状态必须指定处理人",
	ErrAlertActionRequired:   "结案必须填写处理措施",
	ErrAlertTitleRequired:    "Other类型警报必须填写自定义标题",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:          StatusOK,
	ErrUnknown:          StatusInternalServerError,
	ErrBind:             StatusBadRequest,
	ErrValidation:       StatusBadRequest,
	ErrTokenInvalid:     StatusUnauthorized,
	ErrPermissionDenied: StatusForbidden,
	ErrTooManyRequests:  StatusTooManyRequests,

	// 账户相关错误码
	ErrAccountNotFound:       StatusNotFound,
	ErrAccountAlreadyExist:   StatusBadRequest,
	ErrFlatAlreadyRegistered: StatusBadRequest,
	ErrPasswordIncorrect:     StatusUnauthorized,
	ErrAccountNotActivated:   StatusForbidden,
	ErrAccountNotApproved:    StatusForbidden,
	ErrAccountRejected:       StatusForbidden,
	ErrRemarkRequired:        StatusBadRequest,

	// OTP相关错误码
	ErrOtpExpired:  StatusConflict,
	ErrOtpInvalid:  StatusConflict,
	ErrOtpCooldown: StatusTooManyRequests,

	// 登记实体相关错误码
	ErrStaffNotFound:       StatusNotFound,
	ErrStaffAlreadyExist:   StatusBadRequest,
	ErrVehicleNotFound:     StatusNotFound,
	ErrVehicleAlreadyExist: StatusConflict,
	ErrVehicleNoInvalid:    StatusBadRequest,
	ErrVisitorNotFound:     StatusNotFound,
	ErrDeliveryNotFound:    StatusNotFound,
	ErrDeliveryPending:     StatusBadRequest,

	// 门禁核验相关错误码
	ErrSubjectBlocked:  StatusConflict,
	ErrVehicleDenied:   StatusConflict,
	ErrAlreadyInside:   StatusConflict,
	ErrNotInside:       StatusConflict,
	ErrPassAlreadyUsed: StatusConflict,
	ErrPassExpired:     StatusConflict,
	ErrPassRevoked:     StatusConflict,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 紧急警报相关错误码
	ErrAlertNotFound:         StatusNotFound,
	ErrAlertTransition:       StatusConflict,
	ErrAlertAssigneeRequired: StatusBadRequest,
	ErrAlertActionRequired:   StatusBadRequest,
	ErrAlertTitleRequired:    StatusBadRequest,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
