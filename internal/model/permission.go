package model

type Permission string

const (
	PermGetPublicVacancy Permission = "GET_PUBLIC_VACANCY"

	// candidate
	PermGetTesting         Permission = "GET_TESTING"
	PermStartTesting       Permission = "START_TESTING"
	PermCompleteTesting    Permission = "COMPLETE_TESTING"
	PermGetSelfTestResults Permission = "GET_TEST_RESULTS"

	// HR
	PermGetPrivateVacancy  Permission = "GET_PRIVATE_VACANCY"
	PermCreateVacancy      Permission = "CREATE_VACANCY"
	PermUpdateVacancy      Permission = "UPDATE_VACANCY"
	PermDeleteVacancy      Permission = "DELETE_VACANCY"
	PermCreateTesting      Permission = "CREATE_TESTING"
	PermUpdateTesting      Permission = "UPDATE_TESTING"
	PermDeleteTesting      Permission = "DELETE_TESTING"
	PermGetUserTestResults Permission = "GET_USER_TEST_RESULTS"
)

// AllPermissions lists every permission the service checks, in display order.
var AllPermissions = []Permission{
	PermGetPublicVacancy,
	PermGetTesting,
	PermStartTesting,
	PermCompleteTesting,
	PermGetSelfTestResults,
	PermGetPrivateVacancy,
	PermCreateVacancy,
	PermUpdateVacancy,
	PermDeleteVacancy,
	PermCreateTesting,
	PermUpdateTesting,
	PermDeleteTesting,
	PermGetUserTestResults,
}
