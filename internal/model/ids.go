package model

// ModuleID identifies a loaded module (assembly) inside the model.
type ModuleID uint32

// NoModuleID marks the absence of a module.
const NoModuleID ModuleID = 0

// IsValid reports whether the module ID refers to a registered module.
func (id ModuleID) IsValid() bool { return id != NoModuleID }

// Handle is the raw metadata handle (table token) of a record inside its module.
type Handle uint32

// Metadata table tags carried in the top byte of a Handle.
const (
	TableTypeRef  Handle = 0x01000000
	TableTypeDef  Handle = 0x02000000
	TableField    Handle = 0x04000000
	TableMethod   Handle = 0x06000000
	TableParam    Handle = 0x08000000
	TableTypeSpec Handle = 0x1b000000
	TableEvent    Handle = 0x14000000
	TableProperty Handle = 0x17000000
)

// Table returns the table tag of the handle.
func (h Handle) Table() Handle { return h & 0xff000000 }

// Row returns the 1-based row number of the handle.
func (h Handle) Row() uint32 { return uint32(h & 0x00ffffff) }

// MakeHandle composes a handle from a table tag and a row number.
func MakeHandle(table Handle, row uint32) Handle {
	return table | Handle(row&0x00ffffff)
}

// TypeID uniquely identifies a type inside the model arena.
type TypeID uint32

// NoTypeID marks the absence of a type.
const NoTypeID TypeID = 0

// IsValid reports whether the type ID refers to an interned type.
func (id TypeID) IsValid() bool { return id != NoTypeID }

// EntityID identifies a member or type-definition entity inside the model arena.
type EntityID uint32

// NoEntityID marks the absence of an entity.
const NoEntityID EntityID = 0

// IsValid reports whether the entity ID refers to an allocated entity.
func (id EntityID) IsValid() bool { return id != NoEntityID }
