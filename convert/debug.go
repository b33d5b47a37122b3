package convert

import (
	"github.com/gosimple/slug"
	"go.uber.org/zap"

	"tomdx/config"
	"tomdx/odp"
	"tomdx/utils/images"
)

const previewWidth = 256

// storeDebug puts document parts, tree dumps and shape previews of a single
// conversion into the report.
func storeDebug(rpt *config.Report, id string, p *presentation, doc *odp.Document, log *zap.Logger) {
	if rpt == nil {
		return
	}
	prefix := id + "/"

	rpt.StoreData(prefix+"content.xml", p.content)
	rpt.StoreData(prefix+"styles.xml", p.styles)
	rpt.StoreData(prefix+"meta.xml", p.metaXML)
	rpt.StoreData(prefix+"tree.txt", []byte(doc.Dump()))
	rpt.StoreData(prefix+"styles.txt", []byte(doc.DumpStyles()))

	for _, s := range doc.Shapes() {
		name := prefix + "shapes/" + slug.Make(s.Name)
		rpt.StoreData(name+".svg", s.SVG)

		img, err := images.RasterizeSVG(s.SVG, previewWidth)
		if err != nil {
			log.Debug("Unable to rasterize shape preview", zap.String("shape", s.Name), zap.Error(err))
			continue
		}
		data, err := images.EncodePNG(img)
		if err != nil {
			log.Debug("Unable to encode shape preview", zap.String("shape", s.Name), zap.Error(err))
			continue
		}
		rpt.StoreData(name+".png", data)
	}
}
