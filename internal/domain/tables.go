package domain

var Tables = []interface{}{
	// System
	&SysConfig{},
	&SysOpr{},
	&SysOprLog{},
	// Catalog
	&ProductCategory{},
	&Product{},
	&ProductMedia{},
	// Leads
	&Inquiry{},
	&MotivationQuote{},
}
