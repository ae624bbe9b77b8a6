// Package config loads the service configuration from an optional YAML file.
//
// Config fields:
//   - Server.Addr           : listen address (default ":8000")
//   - Server.Message        : GET / identification message (default "Students API")
//   - Source.Location       : dataset location (default "students.csv"); STUDENTS_SOURCE overrides it
//   - Source.Watch          : reload when the source file changes
//   - Source.ReloadInterval : periodic reload, 0 disables
//   - Log.Level             : debug | info | warn | error (default info)
//
// Load(path) applies defaults before unmarshalling, then validates.
package config
