package packets

// query for /api/venues/:id/image
type ImageQuery struct {
	Width  int    `form:"width" binding:"omitempty,min=1,max=4096"`
	Height int    `form:"height" binding:"omitempty,min=1,max=4096"`
	Fit    string `form:"fit" binding:"omitempty,oneof=atleast within"`
}
