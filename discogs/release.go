package discogs

import (
	"fmt"
	"strings"
)

// Separator joins the values of multi-valued columns.
const Separator = " ||||| "

// LegacyMissingValue is what absent track fields have always rendered as.
const LegacyMissingValue = "None"

var Header = []string{"id", "titles", "artists", "country", "genres", "styles", "dataQuality", "trackList", "images"}

type Release struct {
	ID          string
	Title       string
	Country     string
	DataQuality string

	Artists []string
	Genres  []string
	Styles  []string
	Tracks  []Track
	Images  []string
}

type Track struct {
	Position    string
	Title       string
	HasPosition bool
	HasTitle    bool
}

func (t Track) Render(missing string) string {
	position := t.Position
	if !t.HasPosition {
		position = missing
	}

	title := t.Title
	if !t.HasTitle {
		title = missing
	}

	return fmt.Sprintf("%s: %s", position, title)
}

func Extract(release *Element) *Release {
	r := &Release{}

	r.ID, _ = release.Attr("id")
	r.Title, _ = release.FindText("title")
	r.Country, _ = release.FindText("country")
	r.DataQuality, _ = release.FindText("data_quality")

	for _, artist := range release.FindAll("artists", "artist") {
		name, _ := artist.FindText("name")
		r.Artists = append(r.Artists, name)
	}

	for _, genre := range release.FindAll("genres", "genre") {
		r.Genres = append(r.Genres, genre.Text)
	}

	for _, style := range release.FindAll("styles", "style") {
		r.Styles = append(r.Styles, style.Text)
	}

	for _, track := range release.FindAll("tracklist", "track") {
		t := Track{}
		t.Position, t.HasPosition = track.FindText("position")
		t.Title, t.HasTitle = track.FindText("title")
		r.Tracks = append(r.Tracks, t)
	}

	for _, image := range release.FindAll("images", "image") {
		uri, _ := image.Attr("uri")
		r.Images = append(r.Images, uri)
	}

	return r
}

// Row flattens the release into the column order of Header.
func (r *Release) Row(missing string) []string {
	tracks := make([]string, len(r.Tracks))
	for i, track := range r.Tracks {
		tracks[i] = track.Render(missing)
	}

	return []string{
		r.ID,
		r.Title,
		strings.Join(r.Artists, Separator),
		r.Country,
		strings.Join(r.Genres, Separator),
		strings.Join(r.Styles, Separator),
		r.DataQuality,
		strings.Join(tracks, Separator),
		strings.Join(r.Images, Separator),
	}
}
