package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden    = "AUTHZ_FORBIDDEN"      // 접근 권한 없음
	AuthzRoleNotFound = "AUTHZ_ROLE_NOT_FOUND" // 권한 정보 없음
	AuthzAdminOnly    = "AUTHZ_ADMIN_ONLY"     // 관리자만 가능
	AuthzOwnerOnly    = "AUTHZ_OWNER_ONLY"     // 소유자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	ResourceNotFound      = "RESOURCE_NOT_FOUND"      // 리소스 없음
	ResourceAlreadyExists = "RESOURCE_ALREADY_EXISTS" // 이미 존재

	// ==================== 상품 (PRODUCT_) ====================
	ProductNotFound = "PRODUCT_NOT_FOUND" // 상품 없음
	ProductInvalid  = "PRODUCT_INVALID"   // 잘못된 상품 정보

	// ==================== 장바구니 (CART_) ====================
	CartInvalidRequest = "CART_INVALID_REQUEST" // 사용자/상품 누락

	// ==================== 배송지 (ADDRESS_) ====================
	AddressNotFound = "ADDRESS_NOT_FOUND" // 배송지 없음
	AddressInvalid  = "ADDRESS_INVALID"   // 잘못된 배송지 정보

	// ==================== 주문 (ORDER_) ====================
	OrderNotFound          = "ORDER_NOT_FOUND"            // 주문 없음
	OrderCartEmpty         = "ORDER_CART_EMPTY"           // 장바구니 비어 있음
	OrderAddressNotFound   = "ORDER_ADDRESS_NOT_FOUND"    // 배송지 없음
	OrderInsufficientStock = "ORDER_INSUFFICIENT_STOCK"   // 재고 부족
	OrderInvalidQuantity   = "ORDER_INVALID_QUANTITY"     // 잘못된 수량
	OrderInvalidPayment    = "ORDER_INVALID_PAYMENT_MODE" // 잘못된 결제 수단
	OrderInvalidStatus     = "ORDER_INVALID_STATUS"       // 잘못된 주문 상태
	OrderPersistenceFailed = "ORDER_PERSISTENCE_FAILED"   // 주문 저장 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
)
