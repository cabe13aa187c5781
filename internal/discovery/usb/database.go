// internal/discovery/usb/database.go
package usb

import (
	"github.com/google/gousb"
)

// VendorDatabase names printer manufacturers by USB vendor id. It fills in
// MFG for devices that do not answer the device id request.
type VendorDatabase struct {
	vendors map[gousb.ID]*VendorInfo
}

// VendorInfo contains vendor-specific information
type VendorInfo struct {
	Manufacturer string
	Name         string
}

// NewVendorDatabase creates and initializes the vendor database
func NewVendorDatabase() *VendorDatabase {
	db := &VendorDatabase{
		vendors: make(map[gousb.ID]*VendorInfo),
	}
	db.initializeDatabase()
	return db
}

func (db *VendorDatabase) initializeDatabase() {
	db.vendors[0x03F0] = &VendorInfo{Manufacturer: "HP", Name: "HP, Inc"}
	db.vendors[0x043D] = &VendorInfo{Manufacturer: "Lexmark", Name: "Lexmark International, Inc."}
	db.vendors[0x0482] = &VendorInfo{Manufacturer: "Kyocera", Name: "Kyocera Corp."}
	db.vendors[0x04A9] = &VendorInfo{Manufacturer: "Canon", Name: "Canon, Inc."}
	db.vendors[0x04B8] = &VendorInfo{Manufacturer: "EPSON", Name: "Seiko Epson Corp."}
	db.vendors[0x04DA] = &VendorInfo{Manufacturer: "Panasonic", Name: "Panasonic Corp."}
	db.vendors[0x04E8] = &VendorInfo{Manufacturer: "Samsung", Name: "Samsung Electronics Co., Ltd"}
	db.vendors[0x04F9] = &VendorInfo{Manufacturer: "Brother", Name: "Brother Industries, Ltd"}
	db.vendors[0x0519] = &VendorInfo{Manufacturer: "Star", Name: "Star Micronics Co., Ltd."}
	db.vendors[0x0924] = &VendorInfo{Manufacturer: "Xerox", Name: "Xerox"}
	db.vendors[0x0A5F] = &VendorInfo{Manufacturer: "Zebra", Name: "Zebra Technologies"}
	db.vendors[0x1504] = &VendorInfo{Manufacturer: "BIXOLON", Name: "BIXOLON Co., Ltd."}
	db.vendors[0x1CBE] = &VendorInfo{Manufacturer: "CITIZEN", Name: "Citizen Systems Japan Co., Ltd."}
}

// IsKnownVendor checks if a vendor ID is in the database
func (db *VendorDatabase) IsKnownVendor(vendorID gousb.ID) bool {
	_, exists := db.vendors[vendorID]
	return exists
}

// GetVendorInfo retrieves vendor information
func (db *VendorDatabase) GetVendorInfo(vendorID gousb.ID) *VendorInfo {
	return db.vendors[vendorID]
}

// AddVendor adds or replaces a vendor
func (db *VendorDatabase) AddVendor(vendorID gousb.ID, info *VendorInfo) {
	db.vendors[vendorID] = info
}
