package extract

import "github.com/tsawler/pdfconv/model"

// Build assembles a page from its events in reading order.
func Build(number int, events []Event) *model.Page {
	page := model.NewPage(number)
	elements := make([]model.Element, 0, len(events))
	for _, ev := range events {
		switch ev.Kind {
		case TextShown:
			elements = append(elements, textElement(ev))
		case ImagePainted:
			if len(ev.Image) == 0 {
				continue
			}
			x, y := ev.CTM.Translation()
			w, h := ev.CTM.ScaleFactors()
			elements = append(elements, model.NewImage(ev.Image, x, y, w, h))
		}
	}
	page.Add(elements...)
	return page
}

func textElement(ev Event) model.Element {
	el := model.NewText(ev.Text, ev.X, ev.Y)
	if s := ev.Style; s != nil {
		if s.FontSize > 0 {
			size := s.FontSize
			el.FontSize = &size
		}
		el.FontFamily = s.FontFamily
		el.Bold = s.Bold
		el.Italic = s.Italic
		el.CharSpacing = s.CharSpacing
		el.WordSpacing = s.WordSpacing
	}
	return el
}
