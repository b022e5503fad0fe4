package models

import "strings"

// Built-in permission types. Users may add custom types; the built-ins always
// keep a non-empty default template body.
const (
	TypeKBM     = "KBM"
	TypeHalaqah = "Halaqah"
	TypeKajian  = "Kajian"
	TypeRapat   = "Rapat"
)

// DefaultTemplates maps each built-in permission type to its default letter
// body. Placeholder tokens use the {{key}} form.
var DefaultTemplates = map[string]string{
	TypeKBM: `SURAT IZIN TIDAK MENGIKUTI KBM

Yth. Bapak Kepala {{unit}}
di tempat

Assalamu'alaikum warahmatullahi wabarokatuh

Dengan surat ini saya memberitahukan bahwa :

Nama : {{nama}}
Guru : {{jabatanStruktural}}

Meminta izin karena tidak bisa mengikuti kegiatan belajar mengajar pada :

Hari/Tanggal : {{dayName}}, {{date}}
Alasan Izin : {{reason}}


Mapel terjadwal :
{{schedule}}

untuk tugas insyaAllah akan kami konfirmasikan ke guru piket hari ini.

Demikian surat ini kami buat dan kami sampaikan dengan sebenar - benarnya.
Atas perhatianya Kami ucapkan jazaakumullah khairan katsiran.

Hormat Kami.


{{nama}}

_________________________`,

	TypeHalaqah: `PESAN IZIN TIDAK MASUK HALAQAH

Assalamu'alaikum Warahmatullahi Wabarakatuh.

Nama : {{nama}}
Hari/Tanggal : {{dayName}}, {{date}}
Waktu Halaqah  : {{waktuHalaqah}}
Tempat Halaqah : {{tempatHalaqah}}

Pesan & Keterangan Izin:
Bismillah ...
{{reason}}

Solusi Badal: {{solusiBadal}}

Jazaakumullahu khoiron atas pengertiannya.
Mohon maaf dan semoga Allah menjaga halaqah kita semua.

Wassalamu'alaikum warahmatullahi wabarokatuh.

_______________`,

	TypeKajian: `Bismillah.
Izin melaporkan ketidakhadiran dalam kajian rutin.

Nama: {{nama}}
Unit: {{unit}}
Tanggal: {{date}}
Alasan: {{reason}}

Semoga kajian berjalan lancar. Jazakumullahu khairan.`,

	TypeRapat: `Selamat {{timeGreeting}},

Izin tidak dapat menghadiri rapat {{unit}} yang diselenggarakan pada:
Tanggal: {{date}}

Dikarenakan: {{reason}}

Mohon maaf atas ketidakhadiran saya, semoga hasil rapat dapat saya pelajari melalui notulensi.

Terima kasih.
{{nama}}`,
}

// MergeTemplates layers user overrides on top of the built-in defaults so the
// mapping always contains at least the default bodies.
func MergeTemplates(overrides map[string]string) map[string]string {
	merged := make(map[string]string, len(DefaultTemplates)+len(overrides))
	for name, body := range DefaultTemplates {
		merged[name] = body
	}
	for name, body := range overrides {
		merged[name] = body
	}
	return merged
}

// GenericTemplate returns the seed body for a user-added permission type.
func GenericTemplate(typeName string) string {
	return `IZIN ` + strings.ToUpper(typeName) + `

Kepada Yth. Bapak/Ibu Pimpinan,
Saya yang bertanda tangan di bawah ini:

Nama: {{nama}}
Unit: {{unit}}

Memohon izin {{reason}} pada tanggal {{date}}.

Demikian permohonan ini saya sampaikan.
Terima kasih.`
}
