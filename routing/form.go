package routing

import "net/http"

// Form flattens the request's form values, keeping the first value of each
// key. Keys that are missing from the request are not present in the map.
func Form(r *http.Request) (map[string]string, error) {

	if err := r.ParseForm(); err != nil {
		return nil, err
	}

	values := map[string]string{}

	for key, vals := range r.Form {
		if len(vals) > 0 {
			values[key] = vals[0]
		}
	}

	return values, nil
}
