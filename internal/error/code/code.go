package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusConflict - 409: 状态冲突.
	StatusConflict = 409
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrPermissionDenied - 403: 角色权限不足.
	ErrPermissionDenied
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 账户相关错误码 (101xxx).
const (
	// ErrAccountNotFound - 404: 账户不存在.
	ErrAccountNotFound int = iota + 101000
	// ErrAccountAlreadyExist - 400: 账户已存在.
	ErrAccountAlreadyExist
	// ErrFlatAlreadyRegistered - 400: 房号已被注册.
	ErrFlatAlreadyRegistered
	// ErrPasswordIncorrect - 401: 账户密码错误.
	ErrPasswordIncorrect
	// ErrAccountNotActivated - 403: 账户尚未完成OTP激活.
	ErrAccountNotActivated
	// ErrAccountNotApproved - 403: 账户尚未通过管理员审批.
	ErrAccountNotApproved
	// ErrAccountRejected - 403: 账户注册已被拒绝.
	ErrAccountRejected
	// ErrRemarkRequired - 400: 必须填写备注说明.
	ErrRemarkRequired
)

// OTP相关错误码 (102xxx).
const (
	// ErrOtpExpired - 409: OTP已过期.
	ErrOtpExpired int = iota + 102000
	// ErrOtpInvalid - 409: OTP不匹配.
	ErrOtpInvalid
	// ErrOtpCooldown - 429: OTP重发冷却中.
	ErrOtpCooldown
)

// 登记实体相关错误码 (103xxx).
const (
	// ErrStaffNotFound - 404: 家政人员不存在.
	ErrStaffNotFound int = iota + 103000
	// ErrStaffAlreadyExist - 400: 家政人员已登记.
	ErrStaffAlreadyExist
	// ErrVehicleNotFound - 404: 车辆不存在.
	ErrVehicleNotFound
	// ErrVehicleAlreadyExist - 409: 车辆已登记.
	ErrVehicleAlreadyExist
	// ErrVehicleNoInvalid - 400: 车牌号格式不正确.
	ErrVehicleNoInvalid
	// ErrVisitorNotFound - 404: 访客不存在.
	ErrVisitorNotFound
	// ErrDeliveryNotFound - 404: 快递请求不存在.
	ErrDeliveryNotFound
	// ErrDeliveryPending - 400: 已存在待处理的快递请求.
	ErrDeliveryPending
)

// 门禁核验相关错误码 (104xxx).
const (
	// ErrSubjectBlocked - 409: 主体已被拉黑，禁止进入.
	ErrSubjectBlocked int = iota + 104000
	// ErrVehicleDenied - 409: 车辆已被禁行.
	ErrVehicleDenied
	// ErrAlreadyInside - 409: 主体已在园区内.
	ErrAlreadyInside
	// ErrNotInside - 409: 主体不在园区内.
	ErrNotInside
	// ErrPassAlreadyUsed - 409: 通行证已被使用.
	ErrPassAlreadyUsed
	// ErrPassExpired - 409: 通行证已过期.
	ErrPassExpired
	// ErrPassRevoked - 409: 通行证已被撤销.
	ErrPassRevoked
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 紧急警报相关错误码 (106xxx).
const (
	// ErrAlertNotFound - 404: 警报不存在.
	ErrAlertNotFound int = iota + 106000
	// ErrAlertTransition - 409: 警报状态只能向前流转.
	ErrAlertTransition
	// ErrAlertAssigneeRequired - 400: 进入处理状态必须指定处理人.
	ErrAlertAssigneeRequired
	// ErrAlertActionRequired - 400: 结案必须填写处理措施.
	ErrAlertActionRequired
	// ErrAlertTitleRequired - 400: Other类型警报必须填写自定义标题.
	ErrAlertTitleRequired
)
