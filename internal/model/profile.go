package model

// Profile marks a roster entry as staff or as a plain customer
type Profile string

// Profile codes as constants
const (
	ProfileNone          Profile = ""
	ProfileCustomer      Profile = "Cliente"
	ProfileAdministrator Profile = "Administrador"
	ProfileSeller        Profile = "Vendedor"
	ProfileStorekeeper   Profile = "Almacenero"
)

// StaffProfiles are the profiles allowed to log into the dashboard
var StaffProfiles = []Profile{ProfileAdministrator, ProfileSeller, ProfileStorekeeper}

func (p Profile) Staff() bool {
	for _, s := range StaffProfiles {
		if p == s {
			return true
		}
	}
	return false
}

func (p Profile) Valid() bool {
	return p == ProfileNone || p == ProfileCustomer || p.Staff()
}
