package imagepkg

import (
	"fmt"
	"image"
	"os"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font/opentype"

	"github.com/youruser/votecard/internal/errs"
)

// Assets are the read-only inputs shared by every render: the background
// template and the two fonts. They are loaded once and never mutated, so
// concurrent renders may share one value.
type Assets struct {
	Template  *image.NRGBA
	NameFont  *opentype.Font
	TitleFont *opentype.Font
}

// LoadAssets reads the template and fonts from disk and checks that the
// template is large enough for layout. Any failure wraps
// errs.ErrTemplateAssetMissing.
func LoadAssets(templatePath, nameFontPath, titleFontPath string, layout Layout) (*Assets, error) {
	tmpl, err := imaging.Open(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", errs.ErrTemplateAssetMissing, templatePath, err)
	}
	nameFont, err := loadFont(nameFontPath)
	if err != nil {
		return nil, err
	}
	titleFont, err := loadFont(titleFontPath)
	if err != nil {
		return nil, err
	}
	return NewAssets(tmpl, nameFont, titleFont, layout)
}

// NewAssets builds Assets from already decoded inputs.
func NewAssets(template image.Image, nameFont, titleFont *opentype.Font, layout Layout) (*Assets, error) {
	if template == nil || nameFont == nil || titleFont == nil {
		return nil, fmt.Errorf("%w: nil template or font", errs.ErrTemplateAssetMissing)
	}
	tmpl := imaging.Clone(template)
	if !layout.Fits(tmpl.Bounds()) {
		return nil, fmt.Errorf("%w: template %dx%d too small for layout", errs.ErrTemplateAssetMissing, tmpl.Bounds().Dx(), tmpl.Bounds().Dy())
	}
	return &Assets{Template: tmpl, NameFont: nameFont, TitleFont: titleFont}, nil
}

func loadFont(path string) (*opentype.Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", errs.ErrTemplateAssetMissing, path, err)
	}
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%w: font %s: %v", errs.ErrTemplateAssetMissing, path, err)
	}
	return f, nil
}
