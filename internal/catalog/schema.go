package catalog

import "strings"

// Column names shared by the three datasets.
const (
	ColUserID     = "id_usuario"
	ColAnimeID    = "id_anime"
	ColTitle      = "titulo_anime"
	ColUserRating = "puntuacion_usuario"
	ColRating     = "puntuacion"
	ColEpisodes   = "total_episodios"
	ColPopularity = "popularidad"
	ColFavorites  = "favoritos"
	ColSynopsis   = "sinopsis"
	ColCluster    = "cluster"
)

// PreferencePrefix marks the per-user genre preference flags.
const PreferencePrefix = "pref_"

// aggregatePreferences are user-level features that are not genre flags.
var aggregatePreferences = map[string]struct{}{
	"promedio_usuario":         {},
	"coincide_genero_favorito": {},
}

// IsPreferenceFeature reports whether a classifier feature describes the
// user rather than the item.
func IsPreferenceFeature(name string) bool {
	if strings.HasPrefix(name, PreferencePrefix) {
		return true
	}
	_, ok := aggregatePreferences[name]
	return ok
}
