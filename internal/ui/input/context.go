package input

// ModelContext is a snapshot of the model state the input modes look at
type ModelContext struct {
	Index        int
	Items        int
	Marked       int
	Admin        bool
	List         bool
	Search       string
	InvoiceShown bool
	FieldOptions bool
}

func (c *ModelContext) CurrentIndex() int            { return c.Index }
func (c *ModelContext) TotalItems() int              { return c.Items }
func (c *ModelContext) MarkedCount() int             { return c.Marked }
func (c *ModelContext) IsAdmin() bool                { return c.Admin }
func (c *ModelContext) OnList() bool                 { return c.List }
func (c *ModelContext) SearchTerm() string           { return c.Search }
func (c *ModelContext) CanExportPDF() bool           { return c.InvoiceShown }
func (c *ModelContext) FocusedFieldHasOptions() bool { return c.FieldOptions }
