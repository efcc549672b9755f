package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories CMMS仓库集合
type Repositories struct {
	Asset     *AssetRepository
	WorkOrder *WorkOrderRepository
	Vendor    *VendorRepository
	Client    *ClientRepository
	PO        *PORepository
	Procedure *ProcedureRepository
	Execution *ExecutionRepository
}

// NewRepositories 创建CMMS仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Asset:     NewAssetRepository(db),
		WorkOrder: NewWorkOrderRepository(db),
		Vendor:    NewVendorRepository(db),
		Client:    NewClientRepository(db),
		PO:        NewPORepository(db),
		Procedure: NewProcedureRepository(db),
		Execution: NewExecutionRepository(db),
	}
}
