package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/suite"

	"sokoni-backend/internal/apperr"
	"sokoni-backend/internal/models"
)

type VendorServiceTestSuite struct {
	suite.Suite
	db      *sql.DB
	users   *UserService
	vendors *VendorService
}

func (s *VendorServiceTestSuite) SetupTest() {
	s.db = newTestDB(s.T())
	s.users = NewUserService(s.db)
	s.vendors = NewVendorService(s.db, s.users)
}

func (s *VendorServiceTestSuite) TestRegisterGrantsVendorRole() {
	user, vendor := registerTestVendor(s.T(), s.users, s.vendors, "seller@example.com", "Mama Mboga")

	s.Equal(user.ID, vendor.UserID)
	s.True(user.Roles.Has(models.RoleVendor))
	s.True(user.Roles.Has(models.RoleCustomer))
}

func (s *VendorServiceTestSuite) TestRegisterRejectsSecondStore() {
	user, _ := registerTestVendor(s.T(), s.users, s.vendors, "seller@example.com", "Mama Mboga")

	_, err := s.vendors.Register(user.ID, &models.VendorRegistration{StoreName: "Second Shop"})
	s.Error(err)
	s.Equal(apperr.KindBusiness, apperr.KindOf(err))
}

func (s *VendorServiceTestSuite) TestRegisterRejectsTakenStoreName() {
	registerTestVendor(s.T(), s.users, s.vendors, "seller@example.com", "Mama Mboga")
	other := registerTestUser(s.T(), s.users, "other@example.com")

	_, err := s.vendors.Register(other.ID, &models.VendorRegistration{StoreName: "Mama Mboga"})
	s.Error(err)
	s.Equal(apperr.KindConflict, apperr.KindOf(err))
}

func (s *VendorServiceTestSuite) TestGetByStoreName() {
	_, vendor := registerTestVendor(s.T(), s.users, s.vendors, "seller@example.com", "Mama Mboga")

	found, err := s.vendors.GetByStoreName("Mama Mboga")
	s.Require().NoError(err)
	s.Equal(vendor.ID, found.ID)

	// lookup ignores case
	found, err = s.vendors.GetByStoreName("mama mboga")
	s.Require().NoError(err)
	s.Equal(vendor.ID, found.ID)

	_, err = s.vendors.GetByStoreName("No Such Store")
	s.Error(err)
	s.Equal(apperr.KindNotFound, apperr.KindOf(err))
}

func (s *VendorServiceTestSuite) TestUpdateOwnershipEnforced() {
	user, vendor := registerTestVendor(s.T(), s.users, s.vendors, "seller@example.com", "Mama Mboga")
	stranger := registerTestUser(s.T(), s.users, "stranger@example.com")

	name := "Hijacked Store"
	_, err := s.vendors.Update(vendor.ID, stranger, &models.VendorUpdate{StoreName: &name})
	s.Error(err)
	s.Equal(apperr.KindAccessDenied, apperr.KindOf(err))

	newName := "Mama Mboga Fresh"
	updated, err := s.vendors.Update(vendor.ID, user, &models.VendorUpdate{StoreName: &newName})
	s.NoError(err)
	s.Equal("Mama Mboga Fresh", updated.StoreName)
}

func TestVendorServiceTestSuite(t *testing.T) {
	suite.Run(t, new(VendorServiceTestSuite))
}
